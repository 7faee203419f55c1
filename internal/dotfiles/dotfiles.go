package dotfiles

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/execx"
	"bootstrap-machine/internal/logger"
)

// markerFile in the working directory marks it as a chezmoi source checkout;
// its presence selects the local source over the remote repository.
const markerFile = ".chezmoiroot"

// envOperator overrides the operator identity used to derive the remote
// dotfiles repository URL.
const envOperator = "BOOTSTRAP_GITHUB_USER"

// SourceMode says where the dotfiles come from.
type SourceMode string

const (
	// SourceLocal initializes chezmoi from a local working copy.
	SourceLocal SourceMode = "local"

	// SourceRemote initializes chezmoi from a remote repository URL.
	SourceRemote SourceMode = "remote"
)

// Target is the configuration source, chosen once and deterministically at
// the start of the apply step.
type Target struct {
	Mode SourceMode
	Path string // set for SourceLocal
	URL  string // set for SourceRemote
}

// Source returns the init argument for the chosen mode.
func (t Target) Source() string {
	if t.Mode == SourceLocal {
		return t.Path
	}
	return t.URL
}

// ResolveTarget picks the configuration source: a local working copy when the
// marker file is present in cwd, otherwise the operator's dotfiles repository
// on GitHub. The operator identity comes from the environment override,
// falling back to the invoking account's username.
func ResolveTarget(cwd string, getenv func(string) string, fallbackUser string) Target {
	if _, err := os.Stat(filepath.Join(cwd, markerFile)); err == nil {
		logger.Debug("[DEBUG] Found %s, using local working copy %s\n", markerFile, cwd)
		return Target{Mode: SourceLocal, Path: cwd}
	}

	operator := getenv(envOperator)
	if operator == "" {
		operator = fallbackUser
	}
	return Target{
		Mode: SourceRemote,
		URL:  fmt.Sprintf("https://github.com/%s/dotfiles.git", operator),
	}
}

// Apply initializes chezmoi against the target source and applies the
// configuration in one idempotent step. Failure is fatal to the run — the
// whole point of provisioning is to reach this step — and the tool's own
// diagnostic output is preserved verbatim in the error.
func Apply(target Target, r execx.Runner) error {
	logger.Info("[INFO] Applying dotfiles from %s source: %s\n", target.Mode, target.Source())
	output, err := r.Run("chezmoi", "init", "--apply", target.Source())
	if err != nil {
		return errors.Wrapf(err, "chezmoi init --apply %s failed:\n%s", target.Source(), output)
	}
	return nil
}

// LockPlugins runs the shell plugin manager's lock step once after the
// dotfiles are applied, so the plugin set declared by the fresh configuration
// is fetched. Best-effort: an error is returned for the caller to log, never
// to abort on.
func LockPlugins(r execx.Runner) error {
	if !execx.Available(r, "sheldon") {
		logger.Debug("[DEBUG] sheldon not on PATH, skipping plugin lock\n")
		return nil
	}
	output, err := r.Run("sheldon", "lock")
	if err != nil {
		return errors.Wrapf(err, "sheldon lock failed: %s", output)
	}
	return nil
}
