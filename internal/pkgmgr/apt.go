package pkgmgr

import (
	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/execx"
)

// Apt adapts an APT-style package manager. Unlike Homebrew it is assumed to
// ship with the OS, so EnsurePresent never bootstraps it; a missing apt-get
// is reported as an error and the ecosystem is treated as unavailable.
type Apt struct {
	runner execx.Runner
}

// NewApt returns the APT adapter.
func NewApt(r execx.Runner) *Apt {
	return &Apt{runner: r}
}

func (a *Apt) Name() string         { return "apt-get" }
func (a *Apt) Ecosystem() Ecosystem { return EcosystemApt }

// EnsurePresent only verifies apt-get resolves; APT is preinstalled on the
// platforms where it is selected.
func (a *Apt) EnsurePresent() error {
	if !execx.Available(a.runner, "apt-get") {
		return errors.New("apt-get not found on PATH")
	}
	return nil
}

// RefreshIndex updates the package index. The orchestrator invokes this once
// per run before the first install; refreshing per package would be wasteful.
func (a *Apt) RefreshIndex() error {
	output, err := a.runner.Run("sudo", "apt-get", "update")
	if err != nil {
		return errors.Wrapf(err, "apt-get update failed: %s", output)
	}
	return nil
}

// Install runs `sudo apt-get install -y <pkg>` and surfaces a non-zero exit
// as an error carrying the command output.
func (a *Apt) Install(pkg string) error {
	output, err := a.runner.Run("sudo", "apt-get", "install", "-y", pkg)
	if err != nil {
		return errors.Wrapf(err, "apt-get install %s failed: %s", pkg, output)
	}
	return nil
}
