package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trailer-tidy",
	Short: "Find movie trailers and email them",
	Long: `trailer-tidy finds trailers for a movie title by combining TMDB metadata
with a YouTube video search, and can email the best match to an address.

Run it as an HTTP service with "serve", or use "search" and "send" directly
from the terminal.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var (
	configFile string
	envFile    string
	logLevel   string
	logJSON    bool
)

func init() {
	// Global flags for all commands
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.trailer-tidy/config.json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file with API keys and SMTP credentials")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(serveCmd, searchCmd, sendCmd, configCmd)
}
