package cli

import (
	"clementus360/doit/config"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	envFile    string
	settings   config.Settings
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "doit",
		Short: "DoIt - a personal task list",
		Long: `DoIt keeps an ordered task list with categories.

Without Supabase settings it runs in guest mode and keeps tasks in memory.
With SUPABASE_URL and SUPABASE_KEY set, signed-in users get their list
mirrored to the project's database.`,
		PersistentPreRunE: loadSettings,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/doit/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment from this file instead of .env")
}

func loadSettings(cmd *cobra.Command, args []string) error {
	var envErr error
	if envFile != "" {
		envErr = config.LoadEnv(envFile)
	} else {
		envErr = config.LoadEnv()
	}
	// the env file may set LOG_LEVEL
	config.InitLogger()
	if envErr != nil {
		config.Logger.Warn("Error loading .env file, will use environment variables instead:", envErr)
	}

	s, err := config.LoadSettings(configPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	settings = s
	return nil
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
