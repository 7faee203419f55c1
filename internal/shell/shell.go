package shell

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/execx"
	"bootstrap-machine/internal/logger"
)

// Configurator makes the operator's login shell match the target shell.
// Every failure it returns is recoverable: a shell that could not be changed
// is an inconvenience, not a reason to abort provisioning.
type Configurator struct {
	runner execx.Runner
	getenv func(string) string

	// shellsPath is /etc/shells in production; tests point it elsewhere.
	shellsPath string
}

// New returns a Configurator backed by the real environment.
func New(r execx.Runner) *Configurator {
	return &Configurator{runner: r, getenv: os.Getenv, shellsPath: "/etc/shells"}
}

// EnsureDefault changes the login shell to target unless it already is.
// The target must be registered in the system's approved-shells list before
// chsh will accept it; when missing it is appended, which needs elevated
// privileges. Both the append and the chsh itself may legitimately fail in
// non-interactive runs, so failures carry a remediation hint instead of
// aborting.
func (c *Configurator) EnsureDefault(target string) error {
	current := c.getenv("SHELL")
	if current == target {
		logger.Debug("[DEBUG] Login shell already %s\n", target)
		return nil
	}

	if _, err := os.Stat(target); err != nil {
		return errors.Wrapf(err, "target shell %s not found", target)
	}

	if !c.registered(target) {
		logger.Info("[INFO] Registering %s in %s...\n", target, c.shellsPath)
		appendCmd := fmt.Sprintf("echo %s >> %s", target, c.shellsPath)
		if output, err := c.runner.Run("sudo", "sh", "-c", appendCmd); err != nil {
			// Not fatal: chsh below will fail too and report the real hint.
			logger.Warn("[WARN] Could not register %s in %s: %v (%s)\n", target, c.shellsPath, err, output)
		}
	}

	logger.Info("[INFO] Changing login shell to %s...\n", target)
	if output, err := c.runner.Run("chsh", "-s", target); err != nil {
		return errors.Wrapf(err,
			"failed to change login shell to %s (run `chsh -s %s` manually): %s",
			target, target, output)
	}
	return nil
}

// registered reports whether target appears verbatim in the approved-shells
// list. An unreadable list counts as unregistered, so the append is attempted.
func (c *Configurator) registered(target string) bool {
	f, err := os.Open(c.shellsPath)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == target {
			return true
		}
	}
	return false
}
