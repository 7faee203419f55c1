package dotfiles

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	onPath map[string]bool
	failOn []string
	output string
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
			return []byte(f.output), errors.New("exit status 1")
		}
	}
	return []byte("ok"), nil
}

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestResolveTargetLocalMarker(t *testing.T) {
	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, ".chezmoiroot"), []byte("home\n"), 0644))

	target := ResolveTarget(cwd, env(nil), "fallback")
	assert.Equal(t, SourceLocal, target.Mode)
	assert.Equal(t, cwd, target.Source())
}

func TestResolveTargetRemoteWithOverride(t *testing.T) {
	cwd := t.TempDir() // no marker

	target := ResolveTarget(cwd, env(map[string]string{"BOOTSTRAP_GITHUB_USER": "someone"}), "fallback")
	assert.Equal(t, SourceRemote, target.Mode)
	assert.Equal(t, "https://github.com/someone/dotfiles.git", target.Source())
}

func TestResolveTargetRemoteFallbackIdentity(t *testing.T) {
	target := ResolveTarget(t.TempDir(), env(nil), "accountname")
	assert.Equal(t, SourceRemote, target.Mode)
	assert.Equal(t, "https://github.com/accountname/dotfiles.git", target.Source())
}

func TestApplyInvokesChezmoiInitApply(t *testing.T) {
	r := &fakeRunner{}
	target := Target{Mode: SourceRemote, URL: "https://github.com/someone/dotfiles.git"}

	require.NoError(t, Apply(target, r))
	require.Len(t, r.calls, 1)
	assert.Equal(t, "chezmoi init --apply https://github.com/someone/dotfiles.git", r.calls[0])
}

func TestApplyPreservesToolOutputOnFailure(t *testing.T) {
	r := &fakeRunner{failOn: []string{"chezmoi"}, output: "chezmoi: template parse error at line 3"}

	err := Apply(Target{Mode: SourceLocal, Path: "/src"}, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template parse error at line 3")
}

func TestLockPluginsSkipsWhenSheldonAbsent(t *testing.T) {
	r := &fakeRunner{}
	assert.NoError(t, LockPlugins(r))
	assert.Empty(t, r.calls)
}

func TestLockPluginsRunsOnce(t *testing.T) {
	r := &fakeRunner{onPath: map[string]bool{"sheldon": true}}
	require.NoError(t, LockPlugins(r))
	assert.Equal(t, []string{"sheldon lock"}, r.calls)
}

func TestLockPluginsFailureIsReturnedNotFatal(t *testing.T) {
	r := &fakeRunner{onPath: map[string]bool{"sheldon": true}, failOn: []string{"sheldon"}, output: "lockfile busy"}
	err := LockPlugins(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lockfile busy")
}
