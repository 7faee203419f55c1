package layout

import (
	"os"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/logger"
)

// Ensure creates the standard directory set every later step depends on: the
// four XDG roots plus the user-local bin directory where installer scripts
// drop binaries. Each root honors its usual environment override
// (XDG_CONFIG_HOME and friends, resolved by adrg/xdg) and falls back to the
// documented default.
//
// Creation is idempotent: existing directories are fine, and full ancestor
// chains are created. A creation failure is returned as an error and is fatal
// to the run — nothing downstream can function without writable standard
// directories.
func Ensure() ([]string, error) {
	dirs := []string{
		xdg.ConfigHome,
		xdg.DataHome,
		xdg.CacheHome,
		xdg.StateHome,
		xdg.BinHome,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory %s", dir)
		}
		logger.Debug("[DEBUG] Ensured directory %s\n", dir)
	}
	return dirs, nil
}
