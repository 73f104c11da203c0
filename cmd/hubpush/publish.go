package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubpush/hubpush/internal/git"
	"github.com/hubpush/hubpush/internal/hubmcp"
	"github.com/hubpush/hubpush/internal/logging"
	"github.com/hubpush/hubpush/pkg/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish <directory>",
	Short: "Publish a directory to GitHub",
	Long:  `Create a GitHub repository from a local directory and push its contents. The directory is initialized as a git repository and committed first when needed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := hubmcp.ResolveToken()
		if err != nil {
			return err
		}

		logger, err := logging.New(logging.Config{
			File:   viper.GetString("log-file"),
			Stderr: viper.GetBool("log-to-stderr"),
		})
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		client, err := hubmcp.NewGitHubClient(hubmcp.ClientConfig{
			Version: version,
			Host:    viper.GetString("host"),
			Token:   token,
			Logger:  logger,
		})
		if err != nil {
			return err
		}

		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return err
		}
		private, err := cmd.Flags().GetBool("private")
		if err != nil {
			return err
		}

		publisher := publish.NewPublisher(client, logger)
		result, err := publisher.Publish(cmd.Context(), publish.Options{
			Directory: args[0],
			Name:      name,
			Private:   private,
		})
		if err != nil {
			logger.WithError(err).Error("publish failed")
			if git.IsAuthFailed(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), "note: git push authenticates with your local git credentials, not the API token; configure a git credential helper and retry")
			}
			return err
		}

		printPublishResult(cmd, result)
		return nil
	},
}

func init() {
	publishCmd.Flags().String("name", "", "Repository name, defaults to the directory name")
	publishCmd.Flags().Bool("private", false, "Create the repository as private")
}

func printPublishResult(cmd *cobra.Command, result *publish.Result) {
	out := cmd.OutOrStdout()
	if result.Initialized {
		fmt.Fprintln(out, "Initialized git repository")
	}
	if result.Committed {
		fmt.Fprintln(out, "Committed local changes")
	}
	visibility := "public"
	if result.Private {
		visibility = "private"
	}
	fmt.Fprintf(out, "Created %s repository %s\n", visibility, result.FullName)
	fmt.Fprintf(out, "Pushed branch %s to origin\n", result.Branch)
	fmt.Fprintln(out, result.HTMLURL)
}
