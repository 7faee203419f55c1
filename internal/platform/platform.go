package platform

import (
	"runtime"

	"bootstrap-machine/internal/execx"
	"bootstrap-machine/internal/logger"
)

// Family is the closed set of host OS families the provisioner understands.
// Strategy applicability is decided by matching on this enum exhaustively, so
// adding a platform is a compile-time-visible change rather than a scattering
// of string comparisons.
type Family string

const (
	// FamilyMac is a macOS-like desktop where Homebrew is the primary ecosystem.
	FamilyMac Family = "macos"

	// FamilyLinuxApt is a Linux desktop with an APT-style package manager.
	FamilyLinuxApt Family = "linux-apt"

	// FamilyOther is any unrecognized host. All ecosystem-specific install
	// strategies are disabled; only installer scripts and source builds apply.
	FamilyOther Family = "other"
)

// Platform identifies the host once at startup. It is immutable and read by
// every component that needs to gate behavior on the OS family or pick an
// architecture-dependent path.
type Platform struct {
	Family Family
	Arch   string // runtime.GOARCH, e.g. "arm64" or "amd64"
}

// Detect resolves the host platform. It is total: unknown hosts map to
// FamilyOther rather than failing, which downstream degrades gracefully by
// skipping ecosystem installs. The only environment reads are the compile-time
// OS/arch identifiers and a PATH lookup for apt-get to distinguish an
// APT-style Linux from any other Linux.
func Detect(r execx.Runner) Platform {
	p := Platform{Family: FamilyOther, Arch: runtime.GOARCH}

	switch runtime.GOOS {
	case "darwin":
		p.Family = FamilyMac
	case "linux":
		if execx.Available(r, "apt-get") {
			p.Family = FamilyLinuxApt
		}
	}

	logger.Debug("[DEBUG] Detected platform family=%s arch=%s\n", p.Family, p.Arch)
	return p
}

// BrewPrefix returns the install prefix Homebrew uses on the given platform.
// There are two fixed prefixes on macOS depending on architecture, plus the
// Linuxbrew location used everywhere else. The Homebrew adapter needs this to
// extend PATH after a fresh bootstrap, before the shell has been restarted.
func BrewPrefix(p Platform) string {
	if p.Family == FamilyMac {
		if p.Arch == "arm64" {
			return "/opt/homebrew"
		}
		return "/usr/local"
	}
	return "/home/linuxbrew/.linuxbrew"
}
