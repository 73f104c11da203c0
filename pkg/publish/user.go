package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hubpush/hubpush/pkg/translations"
)

// MinimalUser is the trimmed output type for the authenticated user.
type MinimalUser struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	HTMLURL   string `json:"html_url"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// GetMe creates the tool that returns details of the authenticated
// user. Useful for verifying that the configured token works at all.
func GetMe(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("get_me",
			mcp.WithDescription(t("TOOL_GET_ME_DESCRIPTION", "Get details of the authenticated GitHub user. Use this to check which account the configured token belongs to.")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_GET_ME_USER_TITLE", "Get my user details"),
				ReadOnlyHint: toBoolPtr(true),
			}),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}

			user, _, err := client.Users.Get(ctx, "")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to get user: %v", err)), nil
			}

			minimal := MinimalUser{
				Login:     user.GetLogin(),
				ID:        user.GetID(),
				Name:      user.GetName(),
				Email:     user.GetEmail(),
				HTMLURL:   user.GetHTMLURL(),
				AvatarURL: user.GetAvatarURL(),
			}

			r, err := json.Marshal(minimal)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal user: %w", err)
			}

			return mcp.NewToolResultText(string(r)), nil
		}
}
