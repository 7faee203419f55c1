package execx

import (
	"os/exec"
	"strings"

	"bootstrap-machine/internal/logger"
)

// Runner abstracts process spawning and PATH resolution so that every
// component which shells out can be exercised in tests without touching the
// host. The real implementation is System(); test fakes live next to the
// packages that need them.
//
// Run is synchronous: it waits for the process and returns the combined
// stdout/stderr, mirroring exec.Cmd.CombinedOutput. Nothing in this program
// is fire-and-forget.
type Runner interface {
	// LookPath resolves a command name against the executable search path.
	// It never executes the command and never partially matches.
	LookPath(name string) (string, error)

	// Run executes the named command with args and returns its combined output.
	// A non-zero exit is reported through the error, with output still populated.
	Run(name string, args ...string) ([]byte, error)
}

// systemRunner is the production Runner backed by os/exec.
type systemRunner struct{}

// System returns the Runner that spawns real processes on the host.
func System() Runner {
	return systemRunner{}
}

func (systemRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (systemRunner) Run(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	return cmd.CombinedOutput()
}

// Available reports whether the named command resolves on the search path.
// It is the single idempotency probe of the whole system: a tool counts as
// installed exactly when its probe binary is resolvable, regardless of how it
// got there. No install history is consulted, so a manually removed tool is
// correctly reinstalled on the next run.
func Available(r Runner, name string) bool {
	_, err := r.LookPath(name)
	return err == nil
}
