package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hubpush/hubpush/pkg/translations"
)

// CreateRepo creates the tool that publishes a local directory to
// GitHub end to end.
func CreateRepo(p *Publisher, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("create_repo",
			mcp.WithDescription(t("TOOL_CREATE_REPO_DESCRIPTION", "Create a GitHub repository from a local directory and push its contents. Initializes the directory as a git repository when needed, creates the remote repository, wires it as origin, and pushes the current branch.")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_CREATE_REPO_USER_TITLE", "Publish directory to GitHub"),
				ReadOnlyHint: toBoolPtr(false),
			}),
			mcp.WithString("directory",
				mcp.Required(),
				mcp.Description("Path of the local project directory. A leading ~ is expanded."),
			),
			mcp.WithString("name",
				mcp.Description("Repository name. Defaults to the directory name."),
			),
			mcp.WithBoolean("private",
				mcp.Description("Create the repository as private. Defaults to false."),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if _, err := requiredParam[string](request, "directory"); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			var opts Options
			if err := mapstructure.Decode(request.Params.Arguments, &opts); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
			}

			result, err := p.Publish(ctx, opts)
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
