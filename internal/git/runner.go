package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// DefaultCommandTimeout bounds a single git invocation when the caller
// supplies no deadline of its own.
const DefaultCommandTimeout = 5 * time.Minute

// Result holds the output of a finished git command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner executes one git command in a directory. The client is
// driven through this interface so tests can substitute a recording
// double for the real binary.
type CommandRunner interface {
	Run(ctx context.Context, gitPath, dir string, args ...string) (Result, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, gitPath, dir string, args ...string) (Result, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, gitPath, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	// a credential prompt would hang callers driving us over stdio
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		// a killed process reports "signal: killed"; the context error
		// is the one worth surfacing
		if ctx.Err() != nil {
			err = ctx.Err()
		}
	}
	return res, err
}
