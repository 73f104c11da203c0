// Package git shells out to the git binary for the local repository
// operations hubpush needs: detecting and initializing a work tree,
// staging and committing, and wiring and pushing a remote.
package git

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Client runs git commands against one repository directory.
type Client struct {
	// GitPath is the resolved git executable. Empty when git is not
	// installed; every operation then fails with ErrGitNotFound.
	GitPath string
	// Dir is the working directory for every command.
	Dir string
	// Logger, when set, traces each invocation at debug level.
	Logger *logrus.Logger

	runner CommandRunner
}

// NewClient returns a client for the repository at dir, resolving the
// git executable from PATH.
func NewClient(dir string) *Client {
	gitPath, _ := exec.LookPath("git")
	return &Client{
		GitPath: gitPath,
		Dir:     dir,
		runner:  execRunner{},
	}
}

// Available reports whether a git executable was found.
func (c *Client) Available() bool {
	return c.GitPath != ""
}

// Version returns the version line of the git binary.
func (c *Client) Version(ctx context.Context) (string, error) {
	res, err := c.run(ctx, "version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// IsWorkTree reports whether Dir is inside a git work tree.
func (c *Client) IsWorkTree(ctx context.Context) (bool, error) {
	res, err := c.run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		if IsNotRepository(err) {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(res.Stdout) == "true", nil
}

// Init creates a new repository in Dir.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.run(ctx, "init")
	return err
}

// HasChanges reports whether the work tree has uncommitted changes,
// untracked files included.
func (c *Client) HasChanges(ctx context.Context) (bool, error) {
	res, err := c.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

// StageAll stages every change in the work tree, deletions included.
func (c *Client) StageAll(ctx context.Context) error {
	_, err := c.run(ctx, "add", "-A")
	return err
}

// Commit records the staged changes.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "commit", "-m", message)
	return err
}

// HasCommits reports whether HEAD resolves to a commit. A freshly
// initialized repository has an unborn HEAD and reports false: with
// --quiet that is exit code 1 and no stderr. Anything else, such as a
// corrupt object store, is a real failure.
func (c *Client) HasCommits(ctx context.Context) (bool, error) {
	_, err := c.run(ctx, "rev-parse", "--verify", "--quiet", "HEAD")
	if err != nil {
		var gitErr *GitError
		if errors.As(err, &gitErr) && gitErr.ExitCode == 1 && strings.TrimSpace(gitErr.Stderr) == "" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CurrentBranch returns the branch HEAD points at.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	res, err := c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// RemoteURL returns the URL of the named remote, or "" when the remote
// is not configured.
func (c *Client) RemoteURL(ctx context.Context, name string) (string, error) {
	res, err := c.run(ctx, "remote", "get-url", name)
	if err != nil {
		if IsNoSuchRemote(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// AddRemote registers a remote under the given name.
func (c *Client) AddRemote(ctx context.Context, name, url string) error {
	_, err := c.run(ctx, "remote", "add", name, url)
	return err
}

// Push pushes branch to remote, optionally recording the upstream.
// Credentials come from the ambient git configuration; terminal
// prompting is disabled, so an unauthorized push fails instead of
// blocking on input.
func (c *Client) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)
	_, err := c.run(ctx, args...)
	return err
}

func (c *Client) run(ctx context.Context, args ...string) (Result, error) {
	if c.GitPath == "" {
		return Result{}, ErrGitNotFound
	}
	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{
			"dir":  c.Dir,
			"args": strings.Join(args, " "),
		}).Debug("running git")
	}
	res, err := c.runner.Run(ctx, c.GitPath, c.Dir, args...)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, NewGitError(args, res, err)
	}
	return res, nil
}
