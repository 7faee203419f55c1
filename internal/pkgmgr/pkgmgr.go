package pkgmgr

import (
	"bootstrap-machine/internal/execx"
	"bootstrap-machine/internal/platform"
)

// Ecosystem names a package manager together with its package namespace.
// Install strategies are tagged with the ecosystem they need, and only run
// when the selected manager matches.
type Ecosystem string

const (
	EcosystemBrew Ecosystem = "brew"
	EcosystemApt  Ecosystem = "apt"
)

// Manager is the adapter over one package ecosystem. Implementations invoke
// the manager non-interactively; a non-zero exit surfaces as an error with
// the command output attached, never as a process abort, so the orchestrator
// can continue with the next tool.
type Manager interface {
	// Name is the manager's binary name, used for logging and probing.
	Name() string

	// Ecosystem identifies the package namespace this manager serves.
	Ecosystem() Ecosystem

	// EnsurePresent makes sure the manager itself is usable, bootstrapping it
	// when the ecosystem supports that. Called once per run, before any installs.
	EnsurePresent() error

	// RefreshIndex updates the manager's package index. The orchestrator calls
	// this at most once per run, before the first install; managers for which
	// a refresh is meaningless implement it as a no-op.
	RefreshIndex() error

	// Install installs one package by name, non-interactively.
	Install(pkg string) error
}

// ForPlatform selects the manager for the detected platform, or nil when the
// host has no recognized ecosystem (every package strategy then falls back to
// scripts and source builds).
func ForPlatform(p platform.Platform, r execx.Runner) Manager {
	switch p.Family {
	case platform.FamilyMac:
		return NewHomebrew(p, r)
	case platform.FamilyLinuxApt:
		return NewApt(r)
	default:
		return nil
	}
}
