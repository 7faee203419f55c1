package installer

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"bootstrap-machine/internal/pkgmgr"
)

// StrategyKind tags the concrete install method of a Strategy.
type StrategyKind string

const (
	// StrategyPackage installs through the platform's package ecosystem.
	StrategyPackage StrategyKind = "package"

	// StrategyScript pipes a fetched installer script into a shell. Always
	// platform-agnostic and treated as best-effort.
	StrategyScript StrategyKind = "script"

	// StrategySource builds the tool with a language toolchain (cargo, go).
	// Applies only when the toolchain binary is already on PATH.
	StrategySource StrategyKind = "source"
)

// Strategy is one concrete way to install a tool. Exactly the fields for its
// Kind are set. Every strategy is self-contained: it either fully installs
// the tool or fails cleanly, leaving nothing the next run cannot redo.
type Strategy struct {
	Kind StrategyKind `yaml:"kind"`

	// Package fields.
	Ecosystem pkgmgr.Ecosystem `yaml:"ecosystem,omitempty"`
	Package   string           `yaml:"package,omitempty"`

	// Script fields.
	ScriptURL  string   `yaml:"script_url,omitempty"`
	ScriptArgs []string `yaml:"script_args,omitempty"`

	// Source-build fields.
	Toolchain string `yaml:"toolchain,omitempty"`
	BuildSpec string `yaml:"build_spec,omitempty"`
}

// BrewPackage declares a Homebrew package strategy.
func BrewPackage(pkg string) Strategy {
	return Strategy{Kind: StrategyPackage, Ecosystem: pkgmgr.EcosystemBrew, Package: pkg}
}

// AptPackage declares an APT package strategy.
func AptPackage(pkg string) Strategy {
	return Strategy{Kind: StrategyPackage, Ecosystem: pkgmgr.EcosystemApt, Package: pkg}
}

// Script declares a remote installer-script strategy.
func Script(url string, args ...string) Strategy {
	return Strategy{Kind: StrategyScript, ScriptURL: url, ScriptArgs: args}
}

// SourceBuild declares a build-from-source strategy via a language toolchain.
func SourceBuild(toolchain, spec string) Strategy {
	return Strategy{Kind: StrategySource, Toolchain: toolchain, BuildSpec: spec}
}

// Tool maps a logical tool name to its ordered install strategies.
//
// Probe is the binary name used for the idempotency check and may differ from
// the package name (ripgrep installs `rg`, the fd-find package installs `fd`).
// When empty, the tool name itself is probed.
type Tool struct {
	Name       string     `yaml:"name"`
	Probe      string     `yaml:"probe,omitempty"`
	Strategies []Strategy `yaml:"strategies"`
}

// ProbeCommand returns the binary name used to decide the tool is installed.
func (t Tool) ProbeCommand() string {
	if t.Probe != "" {
		return t.Probe
	}
	return t.Name
}

// Validate checks the structural invariants of a tool spec: a name, at least
// one strategy, and a known kind on every strategy.
func (t Tool) Validate() error {
	if t.Name == "" {
		return errors.New("tool name is required")
	}
	if len(t.Strategies) == 0 {
		return errors.Newf("tool %s has no install strategies", t.Name)
	}
	for _, s := range t.Strategies {
		switch s.Kind {
		case StrategyPackage, StrategyScript, StrategySource:
		default:
			return errors.Newf("tool %s has unknown strategy kind %q", t.Name, s.Kind)
		}
	}
	return nil
}

// BootstrapTool is the configuration-application tool itself (chezmoi). It is
// a tool like any other, but its failure is fatal to the run: the rest of the
// pipeline is meaningless without it. The installer-script fallback drops the
// binary into ~/.local/bin, which the directory layout step created earlier.
func BootstrapTool() Tool {
	return Tool{
		Name: "chezmoi",
		Strategies: []Strategy{
			BrewPackage("chezmoi"),
			Script("https://get.chezmoi.io", "-b", "$HOME/.local/bin"),
		},
	}
}

// DefaultPlan is the built-in baseline toolchain, in install order. Order is
// deliberate: rustup precedes sheldon because sheldon's final fallback is a
// cargo build, and the shells and downloaders come first because later
// installer scripts rely on them.
func DefaultPlan() []Tool {
	return []Tool{
		{Name: "git", Strategies: []Strategy{BrewPackage("git"), AptPackage("git")}},
		{Name: "curl", Strategies: []Strategy{BrewPackage("curl"), AptPackage("curl")}},
		{Name: "zsh", Strategies: []Strategy{BrewPackage("zsh"), AptPackage("zsh")}},
		{Name: "rustup", Strategies: []Strategy{
			BrewPackage("rustup"),
			Script("https://sh.rustup.rs", "-y", "--no-modify-path"),
		}},
		{Name: "sheldon", Strategies: []Strategy{
			BrewPackage("sheldon"),
			Script("https://rossmacarthur.github.io/install/crate.sh",
				"--repo", "rossmacarthur/sheldon", "--to", "$HOME/.local/bin"),
			SourceBuild("cargo", "sheldon"),
		}},
		{Name: "fzf", Strategies: []Strategy{BrewPackage("fzf"), AptPackage("fzf")}},
		{Name: "ripgrep", Probe: "rg", Strategies: []Strategy{BrewPackage("ripgrep"), AptPackage("ripgrep")}},
		{Name: "fd", Strategies: []Strategy{BrewPackage("fd"), AptPackage("fd-find")}},
		{Name: "bat", Strategies: []Strategy{BrewPackage("bat"), AptPackage("bat")}},
		{Name: "jq", Strategies: []Strategy{BrewPackage("jq"), AptPackage("jq")}},
		{Name: "direnv", Strategies: []Strategy{BrewPackage("direnv"), AptPackage("direnv")}},
		{Name: "starship", Strategies: []Strategy{
			BrewPackage("starship"),
			Script("https://starship.rs/install.sh", "-y"),
		}},
	}
}

// LoadPlan reads a tool plan from a YAML file shaped as:
//
//	tools:
//	  - name: ripgrep
//	    probe: rg
//	    strategies:
//	      - kind: package
//	        ecosystem: brew
//	        package: ripgrep
//
// Every tool is validated before the plan is returned; declared order is
// preserved because install order matters for dependent tools.
func LoadPlan(path string) ([]Tool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tool plan %s", path)
	}

	var wrapper struct {
		Tools []Tool `yaml:"tools"`
	}
	if err := yaml.Unmarshal(raw, &wrapper); err != nil {
		return nil, errors.Wrapf(err, "failed to parse tool plan %s", path)
	}
	if len(wrapper.Tools) == 0 {
		return nil, errors.Newf("tool plan %s declares no tools", path)
	}

	for _, tool := range wrapper.Tools {
		if err := tool.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid tool plan %s", path)
		}
	}
	return wrapper.Tools, nil
}
