package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootstrap-machine/internal/pkgmgr"
)

func TestDefaultPlanIsValid(t *testing.T) {
	plan := DefaultPlan()
	require.NotEmpty(t, plan)

	for _, tool := range plan {
		assert.NoError(t, tool.Validate(), "tool %s", tool.Name)
		assert.NotEmpty(t, tool.ProbeCommand())
	}
}

func TestDefaultPlanOrdersRustupBeforeSheldon(t *testing.T) {
	// sheldon's final fallback is a cargo build, so rustup must come first.
	var rustupIdx, sheldonIdx int
	for i, tool := range DefaultPlan() {
		switch tool.Name {
		case "rustup":
			rustupIdx = i
		case "sheldon":
			sheldonIdx = i
		}
	}
	assert.Less(t, rustupIdx, sheldonIdx)
}

func TestBootstrapToolHasScriptFallback(t *testing.T) {
	tool := BootstrapTool()
	require.NoError(t, tool.Validate())
	assert.Equal(t, "chezmoi", tool.Name)

	kinds := make([]StrategyKind, 0, len(tool.Strategies))
	for _, s := range tool.Strategies {
		kinds = append(kinds, s.Kind)
	}
	assert.Contains(t, kinds, StrategyScript,
		"the bootstrap tool must be installable without any package ecosystem")
}

func TestProbeCommandDefaultsToName(t *testing.T) {
	assert.Equal(t, "fzf", Tool{Name: "fzf"}.ProbeCommand())
	assert.Equal(t, "rg", Tool{Name: "ripgrep", Probe: "rg"}.ProbeCommand())
}

func TestToolValidate(t *testing.T) {
	tests := []struct {
		name    string
		tool    Tool
		wantErr bool
	}{
		{name: "valid", tool: Tool{Name: "git", Strategies: []Strategy{BrewPackage("git")}}},
		{name: "missing name", tool: Tool{Strategies: []Strategy{BrewPackage("git")}}, wantErr: true},
		{name: "no strategies", tool: Tool{Name: "git"}, wantErr: true},
		{name: "unknown kind", tool: Tool{Name: "git", Strategies: []Strategy{{Kind: "telepathy"}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tool.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.yaml")
	raw := `tools:
  - name: ripgrep
    probe: rg
    strategies:
      - kind: package
        ecosystem: brew
        package: ripgrep
      - kind: package
        ecosystem: apt
        package: ripgrep
  - name: starship
    strategies:
      - kind: script
        script_url: https://starship.rs/install.sh
        script_args: ["-y"]
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	tools, err := LoadPlan(path)
	require.NoError(t, err)
	require.Len(t, tools, 2)

	assert.Equal(t, "ripgrep", tools[0].Name)
	assert.Equal(t, "rg", tools[0].ProbeCommand())
	assert.Equal(t, pkgmgr.EcosystemBrew, tools[0].Strategies[0].Ecosystem)
	assert.Equal(t, StrategyScript, tools[1].Strategies[0].Kind)
	assert.Equal(t, []string{"-y"}, tools[1].Strategies[0].ScriptArgs)
}

func TestLoadPlanRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("tools: []\n"), 0644))
	_, err := LoadPlan(empty)
	assert.Error(t, err)

	noStrategies := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(noStrategies, []byte("tools:\n  - name: git\n"), 0644))
	_, err = LoadPlan(noStrategies)
	assert.Error(t, err)

	_, err = LoadPlan(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
