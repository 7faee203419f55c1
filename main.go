package main

import (
	"bootstrap-machine/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// The bootstrap-machine project provisions a fresh workstation for a single operator:
//   - Detects the host platform (macOS, Linux with an APT-style manager, or other)
//     and the CPU architecture once at startup
//   - Creates the standard XDG directory layout, honoring the usual environment overrides
//   - Installs a baseline toolchain through whichever package ecosystem is available,
//     with ordered per-tool fallback to installer scripts or source builds when a
//     package is missing from the primary ecosystem
//   - Ensures the operator's login shell matches the target shell
//   - Hands off to chezmoi to materialize the operator's dotfiles, either from a
//     local working copy or from a remote repository derived from the operator identity
//   - Triggers a best-effort shell plugin lock (sheldon) once the dotfiles are applied
//
// Error handling strategy:
//   - Individual tool failures are recoverable: they are captured into the run report
//     and the run continues, so one missing optional tool never aborts provisioning
//   - Directory layout, the chezmoi bootstrap, and the dotfiles apply are fatal:
//     their failure terminates the process with a non-zero exit status
//   - The system keeps no durable state of its own; idempotency is re-derived from
//     the host (is the binary on PATH?) on every invocation, so re-running the
//     program is the retry mechanism
func main() {
	cmd.Execute()
}
