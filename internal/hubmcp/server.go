// Package hubmcp assembles the hubpush MCP server: GitHub client
// construction, token resolution, and the stdio transport.
package hubmcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/go-github/v69/github"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"github.com/hubpush/hubpush/internal/logging"
	mcplog "github.com/hubpush/hubpush/pkg/log"
	"github.com/hubpush/hubpush/pkg/publish"
	"github.com/hubpush/hubpush/pkg/translations"
)

// ErrNoToken is returned when no personal access token is configured.
var ErrNoToken = errors.New("GITHUB_PERSONAL_ACCESS_TOKEN is not set")

// ClientConfig describes a GitHub API connection.
type ClientConfig struct {
	// Version is reported in the User-Agent header.
	Version string

	// Host is the GitHub hostname. Empty means github.com.
	Host string

	// Token is the personal access token used for every request.
	Token string

	// Logger, when set, traces requests at debug level.
	Logger *logrus.Logger
}

// MCPServerConfig is everything needed to build the MCP server.
type MCPServerConfig struct {
	// Version of the server, reported to clients.
	Version string

	// Host is the GitHub hostname. Empty means github.com.
	Host string

	// Token is the personal access token.
	Token string

	// ReadOnly leaves out every tool that creates, commits, or deletes.
	ReadOnly bool

	// Logger receives step and request traces.
	Logger *logrus.Logger

	// Translator provides tool descriptions.
	Translator translations.TranslationHelperFunc
}

// StdioServerConfig is everything needed to run hubpush over stdio.
type StdioServerConfig struct {
	// Version of the server, reported to clients.
	Version string

	// Host is the GitHub hostname. Empty means github.com.
	Host string

	// Token is the personal access token.
	Token string

	// ReadOnly leaves out every tool that creates, commits, or deletes.
	ReadOnly bool

	// ExportTranslations dumps the tool description overrides to disk.
	ExportTranslations bool

	// EnableCommandLogging logs every JSON-RPC line in and out.
	EnableCommandLogging bool

	// LogFilePath is the diagnostics log file. Empty logs to stderr only.
	LogFilePath string

	// LogToStderr mirrors log entries to stderr alongside the file.
	LogToStderr bool
}

// NewGitHubClient builds an authenticated REST client for the given
// host.
func NewGitHubClient(cfg ClientConfig) (*github.Client, error) {
	if cfg.Token == "" {
		return nil, ErrNoToken
	}

	apiHost, err := parseAPIHost(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API host: %w", err)
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	httpClient := oauth2.NewClient(context.Background(), src)
	if cfg.Logger != nil {
		httpClient.Transport = mcplog.NewLoggingTransport(httpClient.Transport, mcplog.NewHTTPLogger(cfg.Logger))
	}

	client := github.NewClient(httpClient)
	client.UserAgent = fmt.Sprintf("hubpush/%s", cfg.Version)
	client.BaseURL = apiHost.baseRESTURL
	client.UploadURL = apiHost.uploadURL
	return client, nil
}

// NewMCPServer creates the MCP server with all tools wired to one
// GitHub client.
func NewMCPServer(cfg MCPServerConfig) (*server.MCPServer, error) {
	client, err := NewGitHubClient(ClientConfig{
		Version: cfg.Version,
		Host:    cfg.Host,
		Token:   cfg.Token,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Translator == nil {
		cfg.Translator = translations.NullTranslationHelper
	}

	getClient := func(_ context.Context) (*github.Client, error) {
		return client, nil
	}
	publisher := publish.NewPublisher(client, cfg.Logger)

	return publish.NewServer(getClient, publisher, cfg.Version, cfg.ReadOnly, cfg.Translator), nil
}

// RunStdioServer starts the stdio server and blocks until the client
// disconnects or the process receives SIGINT or SIGTERM.
func RunStdioServer(cfg StdioServerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.New(logging.Config{File: cfg.LogFilePath, Stderr: cfg.LogToStderr})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	t, dumpTranslations := translations.TranslationHelper()

	hubServer, err := NewMCPServer(MCPServerConfig{
		Version:    cfg.Version,
		Host:       cfg.Host,
		Token:      cfg.Token,
		ReadOnly:   cfg.ReadOnly,
		Logger:     logger,
		Translator: t,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	stdioServer := server.NewStdioServer(hubServer)
	stdioServer.SetErrorLogger(stdlog.New(logger.Writer(), "stdioserver", 0))

	if cfg.ExportTranslations {
		// Once the server is initialized, all translation keys are loaded.
		dumpTranslations()
	}

	errC := make(chan error, 1)
	go func() {
		in, out := io.Reader(os.Stdin), io.Writer(os.Stdout)

		if cfg.EnableCommandLogging {
			loggedIO := mcplog.NewIOLogger(in, out, logger)
			in, out = loggedIO, loggedIO
		}

		errC <- stdioServer.Listen(ctx, in, out)
	}()

	_, _ = fmt.Fprintf(os.Stderr, "hubpush MCP server running on stdio\n")

	select {
	case <-ctx.Done():
		logger.Info("shutting down server...")
	case err := <-errC:
		if err != nil {
			return fmt.Errorf("error running server: %w", err)
		}
	}

	return nil
}

// ResolveToken reads the personal access token bound into viper by the
// command layer.
func ResolveToken() (string, error) {
	token := viper.GetString("personal_access_token")
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

type apiHost struct {
	baseRESTURL *url.URL
	uploadURL   *url.URL
}

func newDotcomHost() (apiHost, error) {
	baseRESTURL, err := url.Parse("https://api.github.com/")
	if err != nil {
		return apiHost{}, fmt.Errorf("failed to parse dotcom REST URL: %w", err)
	}
	uploadURL, err := url.Parse("https://uploads.github.com/")
	if err != nil {
		return apiHost{}, fmt.Errorf("failed to parse dotcom upload URL: %w", err)
	}
	return apiHost{baseRESTURL: baseRESTURL, uploadURL: uploadURL}, nil
}

func newEnterpriseHost(s string) (apiHost, error) {
	u, err := url.Parse(s)
	if err != nil {
		return apiHost{}, fmt.Errorf("failed to parse enterprise host URL %q: %w", s, err)
	}

	restURL, err := url.Parse(fmt.Sprintf("%s://%s/api/v3/", u.Scheme, u.Host))
	if err != nil {
		return apiHost{}, fmt.Errorf("failed to parse enterprise REST URL: %w", err)
	}
	uploadURL, err := url.Parse(fmt.Sprintf("%s://%s/api/uploads/", u.Scheme, u.Host))
	if err != nil {
		return apiHost{}, fmt.Errorf("failed to parse enterprise upload URL: %w", err)
	}
	return apiHost{baseRESTURL: restURL, uploadURL: uploadURL}, nil
}

// parseAPIHost maps a hostname to REST and upload base URLs. Empty and
// github.com map to the public API, anything else is treated as a
// GitHub Enterprise Server host.
func parseAPIHost(s string) (apiHost, error) {
	if s == "" {
		return newDotcomHost()
	}

	u, err := url.Parse(s)
	if err != nil {
		return apiHost{}, fmt.Errorf("could not parse host as URL: %s", s)
	}
	if u.Scheme == "" {
		return apiHost{}, fmt.Errorf("host must have a scheme (http or https): %s", s)
	}

	if strings.HasSuffix(u.Hostname(), "github.com") {
		return newDotcomHost()
	}
	return newEnterpriseHost(s)
}
