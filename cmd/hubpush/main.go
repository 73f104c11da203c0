package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hubpush/hubpush/internal/hubmcp"
	"github.com/hubpush/hubpush/internal/logging"
)

// These variables are set by the build process using ldflags.
var version = "version"
var commit = "commit"
var date = "date"

var (
	rootCmd = &cobra.Command{
		Use:          "hubpush",
		Short:        "hubpush",
		Long:         `Publish local directories to GitHub: create the repository, wire the remote, and push, from the command line or over MCP.`,
		Version:      fmt.Sprintf("Version: %s\nCommit: %s\nBuild Date: %s", version, commit, date),
		SilenceUsage: true,
	}

	stdioCmd = &cobra.Command{
		Use:   "stdio",
		Short: "Start stdio server",
		Long:  `Start the MCP server that communicates via standard input/output streams using JSON-RPC messages.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			token, err := hubmcp.ResolveToken()
			if err != nil {
				return err
			}

			stdioServerConfig := hubmcp.StdioServerConfig{
				Version:              version,
				Host:                 viper.GetString("host"),
				Token:                token,
				ReadOnly:             viper.GetBool("read-only"),
				ExportTranslations:   viper.GetBool("export-translations"),
				EnableCommandLogging: viper.GetBool("enable-command-logging"),
				LogFilePath:          viper.GetString("log-file"),
				LogToStderr:          viper.GetBool("log-to-stderr"),
			}
			return hubmcp.RunStdioServer(stdioServerConfig)
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetGlobalNormalizationFunc(wordSepNormalizeFunc)

	rootCmd.SetVersionTemplate("{{.Short}}\n{{.Version}}\n")

	// Global flags shared by all commands
	rootCmd.PersistentFlags().Bool("read-only", false, "Restrict the MCP server to read-only tools")
	rootCmd.PersistentFlags().String("log-file", logging.DefaultLogFile(), "Path to the diagnostics log file, empty to log to stderr")
	rootCmd.PersistentFlags().Bool("enable-command-logging", false, "When enabled, the server will log all JSON-RPC requests and responses to the log file")
	rootCmd.PersistentFlags().Bool("export-translations", false, "Save tool description overrides to a JSON file")
	rootCmd.PersistentFlags().String("gh-host", "", "Specify the GitHub hostname (for GitHub Enterprise etc.)")
	rootCmd.PersistentFlags().Bool("log-to-stderr", false, "Mirror log entries to stderr in addition to the log file")

	// Bind flags to viper
	_ = viper.BindPFlag("read-only", rootCmd.PersistentFlags().Lookup("read-only"))
	_ = viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("enable-command-logging", rootCmd.PersistentFlags().Lookup("enable-command-logging"))
	_ = viper.BindPFlag("export-translations", rootCmd.PersistentFlags().Lookup("export-translations"))
	_ = viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("gh-host"))
	_ = viper.BindPFlag("log-to-stderr", rootCmd.PersistentFlags().Lookup("log-to-stderr"))

	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(checkCmd)
}

func initConfig() {
	viper.SetEnvPrefix("hubpush")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// The token keeps its GitHub names rather than a HUBPUSH_ prefixed
	// one. GITHUB_PERSONAL_ACCESS_TOKEN wins over GITHUB_TOKEN.
	_ = viper.BindEnv("personal_access_token", "GITHUB_PERSONAL_ACCESS_TOKEN", "GITHUB_TOKEN")

	// The gh-host flag binds to the host key, so its env override
	// needs the flag's name spelled out.
	_ = viper.BindEnv("host", "HUBPUSH_GH_HOST")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func wordSepNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	from := []string{"_"}
	to := "-"
	for _, sep := range from {
		name = strings.ReplaceAll(name, sep, to)
	}
	return pflag.NormalizedName(name)
}
