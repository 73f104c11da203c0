package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/go-github/v69/github"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hubpush/hubpush/pkg/translations"
)

// MinimalRepository is the trimmed output type for repository listings.
type MinimalRepository struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description,omitempty"`
	HTMLURL       string `json:"html_url"`
	CloneURL      string `json:"clone_url,omitempty"`
	Private       bool   `json:"private"`
	Fork          bool   `json:"fork"`
	DefaultBranch string `json:"default_branch,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// ListRepos creates the tool that lists the authenticated user's
// repositories.
func ListRepos(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("list_repos",
			mcp.WithDescription(t("TOOL_LIST_REPOS_DESCRIPTION", "List repositories owned by or shared with the authenticated user. Returns 30 results per page by default, up to 100 with the perPage parameter.")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_LIST_REPOS_USER_TITLE", "List my repositories"),
				ReadOnlyHint: toBoolPtr(true),
			}),
			mcp.WithString("visibility",
				mcp.Description("Filter by visibility. Defaults to 'all'."),
				mcp.Enum("all", "public", "private"),
			),
			mcp.WithString("affiliation",
				mcp.Description("Comma-separated list of owner, collaborator, organization_member. Defaults to all three."),
			),
			withPagination(),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			visibility, err := optionalParam[string](request, "visibility")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			affiliation, err := optionalParam[string](request, "affiliation")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			pagination, err := optionalPaginationParams(request)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}

			opts := &github.RepositoryListByAuthenticatedUserOptions{
				Visibility:  visibility,
				Affiliation: affiliation,
				ListOptions: github.ListOptions{
					Page:    pagination.page,
					PerPage: pagination.perPage,
				},
			}

			repos, _, err := client.Repositories.ListByAuthenticatedUser(ctx, opts)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to list repositories: %v", err)), nil
			}

			minimal := make([]MinimalRepository, 0, len(repos))
			for _, repo := range repos {
				m := MinimalRepository{
					ID:            repo.GetID(),
					Name:          repo.GetName(),
					FullName:      repo.GetFullName(),
					Description:   repo.GetDescription(),
					HTMLURL:       repo.GetHTMLURL(),
					CloneURL:      repo.GetCloneURL(),
					Private:       repo.GetPrivate(),
					Fork:          repo.GetFork(),
					DefaultBranch: repo.GetDefaultBranch(),
				}
				if ts := repo.GetUpdatedAt(); !ts.IsZero() {
					m.UpdatedAt = ts.Format("2006-01-02T15:04:05Z")
				}
				minimal = append(minimal, m)
			}

			r, err := json.Marshal(minimal)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal repositories: %w", err)
			}

			return mcp.NewToolResultText(string(r)), nil
		}
}

// DeleteRepo creates the tool that deletes one of the authenticated
// user's repositories.
func DeleteRepo(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("delete_repo",
			mcp.WithDescription(t("TOOL_DELETE_REPO_DESCRIPTION", "Delete a GitHub repository. The token needs the delete_repo scope. This cannot be undone.")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:           t("TOOL_DELETE_REPO_USER_TITLE", "Delete repository"),
				ReadOnlyHint:    toBoolPtr(false),
				DestructiveHint: toBoolPtr(true),
			}),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Repository name"),
			),
			mcp.WithString("owner",
				mcp.Description("Repository owner. Defaults to the authenticated user."),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			name, err := requiredParam[string](request, "name")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			owner, err := optionalParam[string](request, "owner")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}

			if owner == "" {
				user, _, err := client.Users.Get(ctx, "")
				if err != nil {
					return nil, fmt.Errorf("failed to get authenticated user: %w", err)
				}
				owner = user.GetLogin()
			}

			resp, err := client.Repositories.Delete(ctx, owner, name)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to delete repository %s/%s: %v", owner, name, err)), nil
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != http.StatusNoContent {
				body, err := io.ReadAll(resp.Body)
				if err != nil {
					return nil, fmt.Errorf("failed to read response body: %w", err)
				}
				return mcp.NewToolResultError(fmt.Sprintf("failed to delete repository: %s", string(body))), nil
			}

			r, err := json.Marshal(map[string]any{
				"deleted":   true,
				"full_name": fmt.Sprintf("%s/%s", owner, name),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to marshal result: %w", err)
			}

			return mcp.NewToolResultText(string(r)), nil
		}
}
