package pkgmgr

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootstrap-machine/internal/platform"
)

// fakeRunner records every spawned command and answers PATH lookups from a
// fixed set. failOn marks command prefixes whose Run should report a non-zero
// exit.
type fakeRunner struct {
	onPath map[string]bool
	failOn []string
	calls  []string
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.onPath[name] {
		return "/usr/bin/" + name, nil
	}
	return "", exec.ErrNotFound
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	call := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, call)
	for _, prefix := range f.failOn {
		if strings.HasPrefix(call, prefix) {
			return []byte("simulated failure"), errors.New("exit status 1")
		}
	}
	return []byte("ok"), nil
}

func TestForPlatform(t *testing.T) {
	r := &fakeRunner{}

	mgr := ForPlatform(platform.Platform{Family: platform.FamilyMac, Arch: "arm64"}, r)
	require.NotNil(t, mgr)
	assert.Equal(t, EcosystemBrew, mgr.Ecosystem())

	mgr = ForPlatform(platform.Platform{Family: platform.FamilyLinuxApt}, r)
	require.NotNil(t, mgr)
	assert.Equal(t, EcosystemApt, mgr.Ecosystem())

	assert.Nil(t, ForPlatform(platform.Platform{Family: platform.FamilyOther}, r))
}

func TestHomebrewEnsurePresentAlreadyInstalled(t *testing.T) {
	r := &fakeRunner{onPath: map[string]bool{"brew": true}}
	h := NewHomebrew(platform.Platform{Family: platform.FamilyMac, Arch: "arm64"}, r)

	require.NoError(t, h.EnsurePresent())
	assert.Empty(t, r.calls, "must not spawn anything when brew is on PATH")
}

func TestHomebrewEnsurePresentBootstraps(t *testing.T) {
	r := &fakeRunner{}
	h := NewHomebrew(platform.Platform{Family: platform.FamilyMac, Arch: "arm64"}, r)

	var envKey, envValue string
	h.setenv = func(key, value string) error {
		envKey, envValue = key, value
		return nil
	}

	require.NoError(t, h.EnsurePresent())
	require.Len(t, r.calls, 1)
	assert.Contains(t, r.calls[0], "Homebrew/install")
	assert.Equal(t, "PATH", envKey)
	assert.True(t, strings.HasPrefix(envValue, "/opt/homebrew/bin:"),
		"PATH must start with the arm64 brew prefix, got %q", envValue)
}

func TestHomebrewEnsurePresentIntelPrefix(t *testing.T) {
	r := &fakeRunner{}
	h := NewHomebrew(platform.Platform{Family: platform.FamilyMac, Arch: "amd64"}, r)

	var envValue string
	h.setenv = func(key, value string) error {
		envValue = value
		return nil
	}

	require.NoError(t, h.EnsurePresent())
	assert.True(t, strings.HasPrefix(envValue, "/usr/local/bin:"))
}

func TestHomebrewBootstrapFailureIsReturned(t *testing.T) {
	r := &fakeRunner{failOn: []string{"/bin/bash"}}
	h := NewHomebrew(platform.Platform{Family: platform.FamilyMac, Arch: "arm64"}, r)

	err := h.EnsurePresent()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated failure")
}

func TestHomebrewInstall(t *testing.T) {
	r := &fakeRunner{}
	h := NewHomebrew(platform.Platform{Family: platform.FamilyMac, Arch: "arm64"}, r)

	require.NoError(t, h.Install("ripgrep"))
	require.Len(t, r.calls, 1)
	assert.Equal(t, "brew install ripgrep", r.calls[0])
}

func TestAptEnsurePresentMissing(t *testing.T) {
	a := NewApt(&fakeRunner{})
	assert.Error(t, a.EnsurePresent())

	a = NewApt(&fakeRunner{onPath: map[string]bool{"apt-get": true}})
	assert.NoError(t, a.EnsurePresent())
}

func TestAptRefreshAndInstall(t *testing.T) {
	r := &fakeRunner{onPath: map[string]bool{"apt-get": true}}
	a := NewApt(r)

	require.NoError(t, a.RefreshIndex())
	require.NoError(t, a.Install("fd-find"))
	assert.Equal(t, []string{
		"sudo apt-get update",
		"sudo apt-get install -y fd-find",
	}, r.calls)
}

func TestAptInstallFailureCarriesOutput(t *testing.T) {
	r := &fakeRunner{failOn: []string{"sudo apt-get install"}}
	a := NewApt(r)

	err := a.Install("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated failure")
}
