//go:build e2e

package e2e_test

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-github/v69/github"
	"github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubpush/hubpush/pkg/publish"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}
}

// isolateGitConfig keeps the tests away from the developer's git
// configuration and identity.
func isolateGitConfig(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "hubpush e2e")
	t.Setenv("GIT_AUTHOR_EMAIL", "e2e@example.invalid")
	t.Setenv("GIT_COMMITTER_NAME", "hubpush e2e")
	t.Setenv("GIT_COMMITTER_EMAIL", "e2e@example.invalid")
}

func gitOut(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newBareRemote creates a local bare repository standing in for
// GitHub's side of the push.
func newBareRemote(t *testing.T) string {
	t.Helper()
	bare := filepath.Join(t.TempDir(), "remote.git")
	gitOut(t, "", "init", "--bare", bare)
	return bare
}

func newProjectDir(t *testing.T) string {
	t.Helper()
	project := filepath.Join(t.TempDir(), "hello")
	require.NoError(t, os.Mkdir(project, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "README.md"), []byte("# hello\n"), 0o644))
	return project
}

func mockCreateClient(t *testing.T, cloneURL string) *github.Client {
	t.Helper()
	repo := &github.Repository{
		Name:     github.Ptr("hello"),
		FullName: github.Ptr("octocat/hello"),
		Owner:    &github.User{Login: github.Ptr("octocat")},
		HTMLURL:  github.Ptr("https://github.com/octocat/hello"),
		CloneURL: github.Ptr(cloneURL),
		Private:  github.Ptr(false),
	}
	return github.NewClient(mock.NewMockedHTTPClient(
		mock.WithRequestMatch(mock.PostUserRepos, repo),
	))
}

func TestPublishEndToEnd(t *testing.T) {
	requireGit(t)
	isolateGitConfig(t)

	bare := newBareRemote(t)
	project := newProjectDir(t)

	publisher := publish.NewPublisher(mockCreateClient(t, bare), quietLogger())

	result, err := publisher.Publish(context.Background(), publish.Options{Directory: project})
	require.NoError(t, err)

	assert.True(t, result.Initialized)
	assert.True(t, result.Committed)
	assert.Equal(t, "octocat/hello", result.FullName)
	assert.NotEmpty(t, result.Branch)

	// The bare repository received the commit on the pushed branch.
	log := gitOut(t, bare, "log", "--oneline", result.Branch)
	assert.Contains(t, log, "Initial commit")

	// origin points at the clone URL returned by the API.
	remote := gitOut(t, project, "remote", "get-url", "origin")
	assert.Contains(t, remote, bare)
}

func TestPublishReusesExistingRemote(t *testing.T) {
	requireGit(t)
	isolateGitConfig(t)

	bare := newBareRemote(t)
	project := newProjectDir(t)

	first := publish.NewPublisher(mockCreateClient(t, bare), quietLogger())
	result, err := first.Publish(context.Background(), publish.Options{Directory: project})
	require.NoError(t, err)

	// New content, same directory. origin already matches the clone
	// URL, so the second run commits and pushes without rewiring.
	require.NoError(t, os.WriteFile(filepath.Join(project, "second.txt"), []byte("more\n"), 0o644))

	second := publish.NewPublisher(mockCreateClient(t, bare), quietLogger())
	again, err := second.Publish(context.Background(), publish.Options{Directory: project})
	require.NoError(t, err)

	assert.False(t, again.Initialized)
	assert.True(t, again.Committed)

	log := gitOut(t, bare, "log", "--oneline", result.Branch)
	lines := strings.Split(strings.TrimSpace(log), "\n")
	assert.Len(t, lines, 2)
}

func TestPublishEmptyDirectory(t *testing.T) {
	requireGit(t)
	isolateGitConfig(t)

	publisher := publish.NewPublisher(github.NewClient(nil), quietLogger())

	_, err := publisher.Publish(context.Background(), publish.Options{Directory: t.TempDir()})
	assert.ErrorIs(t, err, publish.ErrNothingToPublish)
}
