package publish

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-github/v69/github"
	"github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubpush/hubpush/pkg/translations"
)

func Test_CreateRepo(t *testing.T) {
	// Verify tool definition once
	tool, _ := CreateRepo(testPublisher(github.NewClient(nil), newFakeGit()), translations.NullTranslationHelper)

	assert.Equal(t, "create_repo", tool.Name)
	assert.NotEmpty(t, tool.Description)
	assert.Contains(t, tool.InputSchema.Properties, "directory")
	assert.Contains(t, tool.InputSchema.Properties, "name")
	assert.Contains(t, tool.InputSchema.Properties, "private")
	assert.ElementsMatch(t, tool.InputSchema.Required, []string{"directory"})

	tests := []struct {
		name               string
		git                func() *fakeGit
		mockedClient       *http.Client
		requestArgs        func(t *testing.T) map[string]interface{}
		expectToolError    bool
		expectedToolErrMsg string
	}{
		{
			name: "successful publish",
			git: func() *fakeGit {
				g := newFakeGit()
				g.isWorkTree = true
				g.hasCommits = true
				return g
			},
			mockedClient: mock.NewMockedHTTPClient(
				mock.WithRequestMatchHandler(
					mock.PostUserRepos,
					mockResponse(t, http.StatusCreated, mockCreatedRepo()),
				),
			),
			requestArgs: func(t *testing.T) map[string]interface{} {
				return map[string]interface{}{
					"directory": t.TempDir(),
					"name":      "hello",
				}
			},
		},
		{
			name: "missing directory parameter",
			git:  newFakeGit,
			requestArgs: func(_ *testing.T) map[string]interface{} {
				return map[string]interface{}{"name": "hello"}
			},
			expectToolError:    true,
			expectedToolErrMsg: "missing required parameter: directory",
		},
		{
			name: "private parameter of wrong type",
			git:  newFakeGit,
			requestArgs: func(t *testing.T) map[string]interface{} {
				return map[string]interface{}{
					"directory": t.TempDir(),
					"private":   "yes",
				}
			},
			expectToolError:    true,
			expectedToolErrMsg: "invalid parameters",
		},
		{
			name: "creation failure surfaces as tool error",
			git: func() *fakeGit {
				g := newFakeGit()
				g.isWorkTree = true
				g.hasCommits = true
				return g
			},
			mockedClient: mock.NewMockedHTTPClient(
				mock.WithRequestMatchHandler(
					mock.PostUserRepos,
					http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
						w.WriteHeader(http.StatusUnprocessableEntity)
						_, _ = w.Write([]byte(`{"message": "name already exists on this account"}`))
					}),
				),
			),
			requestArgs: func(t *testing.T) map[string]interface{} {
				return map[string]interface{}{
					"directory": t.TempDir(),
					"name":      "hello",
				}
			},
			expectToolError:    true,
			expectedToolErrMsg: "failed to create repository",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := testPublisher(github.NewClient(tc.mockedClient), tc.git())
			_, handler := CreateRepo(p, translations.NullTranslationHelper)

			request := createMCPRequest(tc.requestArgs(t))

			result, err := handler(context.Background(), request)
			require.NoError(t, err)

			if tc.expectToolError {
				textContent := getErrorResult(t, result)
				assert.Contains(t, textContent.Text, tc.expectedToolErrMsg)
				return
			}

			textContent := getTextResult(t, result)

			var returned Result
			err = json.Unmarshal([]byte(textContent.Text), &returned)
			require.NoError(t, err)
			assert.Equal(t, "octocat/hello", returned.FullName)
			assert.Equal(t, "https://github.com/octocat/hello", returned.HTMLURL)
			assert.Equal(t, "main", returned.Branch)
		})
	}
}
