package pkgmgr

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/execx"
	"bootstrap-machine/internal/logger"
	"bootstrap-machine/internal/platform"
)

// brewInstallScript is the official Homebrew bootstrap installer.
const brewInstallScript = "https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh"

// Homebrew adapts the Homebrew package manager. On a fresh machine it can
// bootstrap itself by fetching and running the official install script, then
// extends PATH in the current process so subsequently spawned commands resolve
// the new brew binary without a shell restart.
type Homebrew struct {
	platform platform.Platform
	runner   execx.Runner

	// setenv is swappable so tests can observe the PATH update without
	// mutating the test process environment.
	setenv func(key, value string) error
}

// NewHomebrew returns the Homebrew adapter for the given platform.
func NewHomebrew(p platform.Platform, r execx.Runner) *Homebrew {
	return &Homebrew{platform: p, runner: r, setenv: os.Setenv}
}

func (h *Homebrew) Name() string         { return "brew" }
func (h *Homebrew) Ecosystem() Ecosystem { return EcosystemBrew }

// EnsurePresent bootstraps Homebrew when the brew binary is not on PATH.
// NONINTERACTIVE=1 is how the official script is told to skip its confirmation
// prompt. After a successful bootstrap the platform-dependent install prefix
// is prepended to PATH for the rest of this process.
func (h *Homebrew) EnsurePresent() error {
	if execx.Available(h.runner, "brew") {
		logger.Debug("[DEBUG] brew already on PATH\n")
		return nil
	}

	logger.Info("[INFO] Homebrew not found. Bootstrapping from install script...\n")
	script := fmt.Sprintf("NONINTERACTIVE=1 /bin/bash -c \"$(curl -fsSL %s)\"", brewInstallScript)
	output, err := h.runner.Run("/bin/bash", "-c", script)
	if err != nil {
		return errors.Wrapf(err, "homebrew bootstrap failed: %s", output)
	}

	prefix := platform.BrewPrefix(h.platform)
	newPath := prefix + "/bin:" + os.Getenv("PATH")
	if err := h.setenv("PATH", newPath); err != nil {
		return errors.Wrap(err, "failed to extend PATH after homebrew bootstrap")
	}
	logger.Debug("[DEBUG] Prepended %s/bin to PATH\n", prefix)
	return nil
}

// RefreshIndex is a no-op: the bootstrap script leaves a current index behind
// and brew refreshes formulae on demand during install.
func (h *Homebrew) RefreshIndex() error { return nil }

// Install runs `brew install <pkg>` and surfaces a non-zero exit as an error
// carrying the command output.
func (h *Homebrew) Install(pkg string) error {
	output, err := h.runner.Run("brew", "install", pkg)
	if err != nil {
		return errors.Wrapf(err, "brew install %s failed: %s", pkg, output)
	}
	return nil
}
