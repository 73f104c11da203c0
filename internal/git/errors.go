package git

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGitNotFound reports that no git executable is on PATH.
var ErrGitNotFound = errors.New("git executable not found in PATH")

// GitError carries the exit code and output of a failed git command.
type GitError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	err      error
}

// NewGitError wraps a command failure with its captured output.
func NewGitError(args []string, res Result, err error) *GitError {
	return &GitError{
		Args:     args,
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		err:      err,
	}
}

func (e *GitError) Error() string {
	cmd := "git"
	if len(e.Args) > 0 {
		cmd = "git " + e.Args[0]
	}
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return fmt.Sprintf("%s: %s", cmd, msg)
	}
	return fmt.Sprintf("%s: %v", cmd, e.err)
}

func (e *GitError) Unwrap() error {
	return e.err
}

// output returns everything the failed command printed.
func (e *GitError) output() string {
	return e.Stdout + "\n" + e.Stderr
}

// IsNotRepository reports an operation run outside a git repository.
func IsNotRepository(err error) bool {
	return matchGitError(err, "not a git repository")
}

// IsRemoteExists reports a remote add against a name already in use.
func IsRemoteExists(err error) bool {
	return matchGitError(err, "already exists")
}

// IsNoSuchRemote reports a lookup of a remote that is not configured.
func IsNoSuchRemote(err error) bool {
	return matchGitError(err, "No such remote")
}

// IsNothingToCommit reports a commit attempted with a clean work tree.
func IsNothingToCommit(err error) bool {
	return matchGitError(err, "nothing to commit")
}

// IsAuthFailed reports a remote operation rejected for credentials.
func IsAuthFailed(err error) bool {
	return matchGitError(err, "Authentication failed") ||
		matchGitError(err, "Permission denied") ||
		matchGitError(err, "could not read Username") ||
		matchGitError(err, "Invalid username or token")
}

// IsPushRejected reports a push refused by the remote.
func IsPushRejected(err error) bool {
	return matchGitError(err, "[rejected]") ||
		matchGitError(err, "failed to push some refs")
}

// GetExitCode extracts the git exit code, or -1 when err is not a
// command failure.
func GetExitCode(err error) int {
	var gitErr *GitError
	if errors.As(err, &gitErr) {
		return gitErr.ExitCode
	}
	return -1
}

func matchGitError(err error, substr string) bool {
	var gitErr *GitError
	if !errors.As(err, &gitErr) {
		return false
	}
	return strings.Contains(strings.ToLower(gitErr.output()), strings.ToLower(substr))
}
