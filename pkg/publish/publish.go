// Package publish implements the hubpush core: creating a GitHub
// repository from a local directory and pushing its contents, plus the
// MCP tools that expose the flow to editors.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v69/github"
	"github.com/sirupsen/logrus"

	"github.com/hubpush/hubpush/internal/git"
)

const (
	// DefaultRemote is the remote name the created repository is wired to.
	DefaultRemote = "origin"
	// InitialCommitMessage is used when the work tree needs a first commit.
	InitialCommitMessage = "Initial commit"
)

// ErrNothingToPublish reports a directory whose repository has no
// commits at all, so there is no history to push.
var ErrNothingToPublish = errors.New("repository has no commits to publish")

// RemoteMismatchError reports an origin remote that already points
// somewhere other than the repository just created.
type RemoteMismatchError struct {
	Remote   string
	Existing string
	Target   string
}

func (e *RemoteMismatchError) Error() string {
	return fmt.Sprintf("remote %q already points at %s, not %s; remove it or push manually",
		e.Remote, e.Existing, e.Target)
}

// GitRunner is the slice of git operations the publish sequence needs.
// *git.Client satisfies it.
type GitRunner interface {
	Available() bool
	Version(ctx context.Context) (string, error)
	IsWorkTree(ctx context.Context) (bool, error)
	Init(ctx context.Context) error
	HasChanges(ctx context.Context) (bool, error)
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	HasCommits(ctx context.Context) (bool, error)
	CurrentBranch(ctx context.Context) (string, error)
	RemoteURL(ctx context.Context, name string) (string, error)
	AddRemote(ctx context.Context, name, url string) error
	Push(ctx context.Context, remote, branch string, setUpstream bool) error
}

// Options are the publish parameters. The mapstructure tags bind the
// create_repo tool's params object.
type Options struct {
	Directory string `mapstructure:"directory"`
	Name      string `mapstructure:"name"`
	Private   bool   `mapstructure:"private"`
}

// Result describes a published repository.
type Result struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Owner       string `json:"owner"`
	Private     bool   `json:"private"`
	HTMLURL     string `json:"html_url"`
	CloneURL    string `json:"clone_url"`
	Branch      string `json:"branch"`
	Initialized bool   `json:"initialized"`
	Committed   bool   `json:"committed"`
}

// InitResult describes what init_repo did to a directory.
type InitResult struct {
	Directory   string `json:"directory"`
	Initialized bool   `json:"initialized"`
	Committed   bool   `json:"committed"`
	Branch      string `json:"branch,omitempty"`
}

// GitInfo describes the local git installation.
type GitInfo struct {
	Version string `json:"version"`
}

// Publisher runs the publish sequence against one GitHub client.
type Publisher struct {
	client *github.Client
	logger *logrus.Logger
	newGit func(dir string) GitRunner
}

// NewPublisher wires a publisher to the given client and logger.
func NewPublisher(client *github.Client, logger *logrus.Logger) *Publisher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Publisher{
		client: client,
		logger: logger,
		newGit: func(dir string) GitRunner {
			c := git.NewClient(dir)
			c.Logger = logger
			return c
		},
	}
}

// Publish runs the full sequence: validate the directory, ensure a local
// repository with at least one commit, create the remote repository,
// wire it as origin, and push the current branch. Any failing step
// aborts; nothing already done is rolled back.
func (p *Publisher) Publish(ctx context.Context, opts Options) (*Result, error) {
	dir, err := ResolveDirectory(opts.Directory)
	if err != nil {
		return nil, err
	}

	g := p.newGit(dir)
	if !g.Available() {
		return nil, git.ErrGitNotFound
	}

	log := p.logger.WithField("directory", dir)

	result := &Result{}
	result.Initialized, result.Committed, err = p.ensureLocalRepo(ctx, g, log)
	if err != nil {
		return nil, err
	}

	hasCommits, err := g.HasCommits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect history: %w", err)
	}
	if !hasCommits {
		return nil, ErrNothingToPublish
	}

	branch, err := g.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current branch: %w", err)
	}
	result.Branch = branch

	name := opts.Name
	if name == "" {
		name = filepath.Base(dir)
	}

	repo, _, err := p.client.Repositories.Create(ctx, "", &github.Repository{
		Name:    github.Ptr(name),
		Private: github.Ptr(opts.Private),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create repository %q: %w", name, err)
	}
	result.Name = repo.GetName()
	result.FullName = repo.GetFullName()
	result.Owner = repo.GetOwner().GetLogin()
	result.Private = repo.GetPrivate()
	result.HTMLURL = repo.GetHTMLURL()
	result.CloneURL = repo.GetCloneURL()
	log.WithFields(logrus.Fields{
		"repository": result.FullName,
		"url":        result.HTMLURL,
	}).Info("created repository")

	existing, err := g.RemoteURL(ctx, DefaultRemote)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote %q: %w", DefaultRemote, err)
	}
	switch existing {
	case "":
		if err := g.AddRemote(ctx, DefaultRemote, result.CloneURL); err != nil {
			return nil, fmt.Errorf("failed to add remote %q: %w", DefaultRemote, err)
		}
	case result.CloneURL:
		// already wired to the target, keep it
	default:
		return nil, &RemoteMismatchError{Remote: DefaultRemote, Existing: existing, Target: result.CloneURL}
	}

	if err := g.Push(ctx, DefaultRemote, branch, true); err != nil {
		return nil, fmt.Errorf("failed to push %q: %w", branch, err)
	}
	log.WithField("branch", branch).Info("pushed to remote")

	return result, nil
}

// InitRepo prepares a directory for publishing without touching GitHub:
// init the repository when the directory is not a work tree, then stage
// and commit when the work tree is dirty. Re-running it on a prepared
// directory is a no-op.
func (p *Publisher) InitRepo(ctx context.Context, directory string) (*InitResult, error) {
	dir, err := ResolveDirectory(directory)
	if err != nil {
		return nil, err
	}

	g := p.newGit(dir)
	if !g.Available() {
		return nil, git.ErrGitNotFound
	}

	result := &InitResult{Directory: dir}
	result.Initialized, result.Committed, err = p.ensureLocalRepo(ctx, g, p.logger.WithField("directory", dir))
	if err != nil {
		return nil, err
	}

	hasCommits, err := g.HasCommits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect history: %w", err)
	}
	if hasCommits {
		branch, err := g.CurrentBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve current branch: %w", err)
		}
		result.Branch = branch
	}
	return result, nil
}

// CheckGit verifies the git binary is installed and reports its version.
func (p *Publisher) CheckGit(ctx context.Context) (*GitInfo, error) {
	g := p.newGit("")
	if !g.Available() {
		return nil, git.ErrGitNotFound
	}
	version, err := g.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read git version: %w", err)
	}
	return &GitInfo{Version: version}, nil
}

func (p *Publisher) ensureLocalRepo(ctx context.Context, g GitRunner, log *logrus.Entry) (initialized, committed bool, err error) {
	isRepo, err := g.IsWorkTree(ctx)
	if err != nil {
		return false, false, fmt.Errorf("failed to inspect directory: %w", err)
	}
	if !isRepo {
		if err := g.Init(ctx); err != nil {
			return false, false, fmt.Errorf("failed to initialize repository: %w", err)
		}
		initialized = true
		log.Info("initialized repository")
	}

	dirty, err := g.HasChanges(ctx)
	if err != nil {
		return initialized, false, fmt.Errorf("failed to read work tree status: %w", err)
	}
	if dirty {
		if err := g.StageAll(ctx); err != nil {
			return initialized, false, fmt.Errorf("failed to stage changes: %w", err)
		}
		if err := g.Commit(ctx, InitialCommitMessage); err != nil {
			return initialized, false, fmt.Errorf("failed to commit changes: %w", err)
		}
		committed = true
		log.Info("committed changes")
	}
	return initialized, committed, nil
}

// ResolveDirectory expands a leading ~, makes the path absolute, and
// verifies it names an existing directory.
func ResolveDirectory(path string) (string, error) {
	if path == "" {
		return "", errors.New("directory is required")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("directory %q does not exist", abs)
		}
		return "", fmt.Errorf("failed to stat %q: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%q is not a directory", abs)
	}
	return abs, nil
}
