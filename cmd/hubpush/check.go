package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubpush/hubpush/internal/hubmcp"
	"github.com/hubpush/hubpush/internal/logging"
	"github.com/hubpush/hubpush/pkg/publish"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check git and GitHub access",
	Long:  `Verify that git is installed and that the configured token can reach GitHub.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger, err := logging.New(logging.Config{
			File:   viper.GetString("log-file"),
			Stderr: viper.GetBool("log-to-stderr"),
		})
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		publisher := publish.NewPublisher(nil, logger)
		info, err := publisher.CheckGit(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "git: %s\n", info.Version)

		token, err := hubmcp.ResolveToken()
		if err != nil {
			return err
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

		user, _, err := client.Users.Get(cmd.Context(), "")
		if err != nil {
			return fmt.Errorf("failed to reach GitHub: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "github: authenticated as %s\n", user.GetLogin())
		return nil
	},
}
