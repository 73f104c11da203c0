package publish

import (
	"context"
	"fmt"

	"github.com/google/go-github/v69/github"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hubpush/hubpush/pkg/translations"
)

// GetClientFn returns the GitHub client a tool handler should use for
// the request.
type GetClientFn func(context.Context) (*github.Client, error)

// NewServer creates the hubpush MCP server with every tool registered.
// With readOnly set, tools that create, commit, or delete anything are
// left out.
func NewServer(getClient GetClientFn, publisher *Publisher, version string, readOnly bool, t translations.TranslationHelperFunc) *server.MCPServer {
	s := server.NewMCPServer(
		"hubpush",
		version,
		server.WithToolCapabilities(true),
		server.WithLogging())

	s.AddTool(CheckGit(publisher, t))
	s.AddTool(GetMe(getClient, t))
	s.AddTool(ListRepos(getClient, t))

	if !readOnly {
		s.AddTool(CreateRepo(publisher, t))
		s.AddTool(InitRepo(publisher, t))
		s.AddTool(DeleteRepo(getClient, t))
	}
	return s
}

// requiredParam fetches a required parameter from the request. It
// checks that the parameter is present, of the expected type, and not
// the zero value.
func requiredParam[T comparable](r mcp.CallToolRequest, p string) (T, error) {
	var zero T

	if _, ok := r.Params.Arguments[p]; !ok {
		return zero, fmt.Errorf("missing required parameter: %s", p)
	}

	if _, ok := r.Params.Arguments[p].(T); !ok {
		return zero, fmt.Errorf("parameter %s is not of type %T", p, zero)
	}

	if r.Params.Arguments[p].(T) == zero {
		return zero, fmt.Errorf("missing required parameter: %s", p)
	}

	return r.Params.Arguments[p].(T), nil
}

// optionalParam fetches an optional parameter from the request,
// returning the zero value when it is absent.
func optionalParam[T any](r mcp.CallToolRequest, p string) (T, error) {
	var zero T

	if _, ok := r.Params.Arguments[p]; !ok {
		return zero, nil
	}

	if _, ok := r.Params.Arguments[p].(T); !ok {
		return zero, fmt.Errorf("parameter %s is not of type %T, is %T", p, zero, r.Params.Arguments[p])
	}

	return r.Params.Arguments[p].(T), nil
}

// optionalIntParam fetches an optional numeric parameter. JSON numbers
// arrive as float64 and are narrowed to int.
func optionalIntParam(r mcp.CallToolRequest, p string) (int, error) {
	v, err := optionalParam[float64](r, p)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// optionalIntParamWithDefault is optionalIntParam with a fallback for
// absent or zero values.
func optionalIntParamWithDefault(r mcp.CallToolRequest, p string, d int) (int, error) {
	v, err := optionalIntParam(r, p)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return d, nil
	}
	return v, nil
}

type paginationParams struct {
	page    int
	perPage int
}

// withPagination adds the page and perPage parameters shared by the
// listing tools.
func withPagination() mcp.ToolOption {
	return func(tool *mcp.Tool) {
		mcp.WithNumber("page",
			mcp.Description("Page number for pagination (min 1)"),
			mcp.Min(1),
		)(tool)
		mcp.WithNumber("perPage",
			mcp.Description("Results per page for pagination (min 1, max 100)"),
			mcp.Min(1),
			mcp.Max(100),
		)(tool)
	}
}

// optionalPaginationParams reads page and perPage with their defaults
// of 1 and 30.
func optionalPaginationParams(r mcp.CallToolRequest) (paginationParams, error) {
	page, err := optionalIntParamWithDefault(r, "page", 1)
	if err != nil {
		return paginationParams{}, err
	}
	perPage, err := optionalIntParamWithDefault(r, "perPage", 30)
	if err != nil {
		return paginationParams{}, err
	}
	return paginationParams{page: page, perPage: perPage}, nil
}

func toBoolPtr(b bool) *bool {
	return &b
}
