package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hubpush/hubpush/pkg/translations"
)

// CheckGit creates the tool that verifies the git binary is installed.
func CheckGit(p *Publisher, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("check_git",
			mcp.WithDescription(t("TOOL_CHECK_GIT_DESCRIPTION", "Check that git is installed and report its version. Use this before publishing when the environment is unknown.")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_CHECK_GIT_USER_TITLE", "Check git installation"),
				ReadOnlyHint: toBoolPtr(true),
			}),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			info, err := p.CheckGit(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			r, err := json.Marshal(info)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal result: %w", err)
			}

			return mcp.NewToolResultText(string(r)), nil
		}
}

// InitRepo creates the tool that prepares a directory for publishing:
// initialize the repository when needed, then stage and commit when the
// work tree is dirty. Safe to call again on a prepared directory.
func InitRepo(p *Publisher, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("init_repo",
			mcp.WithDescription(t("TOOL_INIT_REPO_DESCRIPTION", "Initialize a directory as a git repository and commit its contents. Reuses an existing repository and commits only when the work tree has changes.")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:          t("TOOL_INIT_REPO_USER_TITLE", "Initialize local repository"),
				ReadOnlyHint:   toBoolPtr(false),
				IdempotentHint: toBoolPtr(true),
			}),
			mcp.WithString("directory",
				mcp.Required(),
				mcp.Description("Path of the local project directory. A leading ~ is expanded."),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			directory, err := requiredParam[string](request, "directory")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			result, err := p.InitRepo(ctx, directory)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			r, err := json.Marshal(result)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal result: %w", err)
			}

			return mcp.NewToolResultText(string(r)), nil
		}
}
