package provision

import (
	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/installer"
	"bootstrap-machine/internal/logger"
)

// Steps are the pipeline stages in execution order. They are plain functions
// so the command wiring can bind real components while tests substitute
// scripted ones; the fatal-versus-recoverable boundary lives here and nowhere
// else.
type Steps struct {
	// Layout creates the standard directories. Fatal on error.
	Layout func() ([]string, error)

	// EnsureManager readies the package ecosystem. Degrades, never fails.
	EnsureManager func()

	// Bootstrap acquires the configuration-application tool. Fatal on error:
	// the rest of the pipeline is meaningless without it.
	Bootstrap func() error

	// InstallTools runs the full tool loop and returns the run report.
	// Individual tool failures inside the report are recoverable.
	InstallTools func() *installer.Report

	// ConfigureShell sets the login shell. Recoverable.
	ConfigureShell func() error

	// Apply materializes the dotfiles. Fatal on error.
	Apply func() error

	// LockPlugins locks the shell plugin set post-apply. Recoverable.
	LockPlugins func() error
}

// Run executes the provisioning pipeline strictly in sequence. It returns an
// error only for the fatal steps; recoverable step failures are logged as
// warnings and the run continues. A run that returns nil may still have
// failed optional tools — those are in the report, not in the error.
func Run(s Steps) error {
	if _, err := s.Layout(); err != nil {
		return errors.Wrap(err, "directory layout failed")
	}

	s.EnsureManager()

	if err := s.Bootstrap(); err != nil {
		return err
	}

	report := s.InstallTools()
	report.Log()

	if err := s.ConfigureShell(); err != nil {
		logger.Warn("[WARN] Login shell not changed: %v\n", err)
	}

	if err := s.Apply(); err != nil {
		return err
	}

	if err := s.LockPlugins(); err != nil {
		logger.Warn("[WARN] Plugin lock failed: %v\n", err)
	}

	if failed := report.Failed(); len(failed) > 0 {
		logger.Warn("[WARN] Provisioning finished with %d tool(s) not installed. Re-run after fixing the causes above.\n", len(failed))
	} else {
		logger.Info("[INFO] Provisioning complete.\n")
	}
	return nil
}
