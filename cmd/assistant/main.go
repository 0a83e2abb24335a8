package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ZeroConfigAssistant/internal/client"
	"ZeroConfigAssistant/internal/config"
)

const defaultAPIURL = "http://localhost:3000"

var (
	apiURL      string
	themeName   string
	sessionFile string
	verbose     bool

	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Terminal client for the personal assistant",
	Long: `assistant sends typed or dictated commands to the assistant backend.

Sign in once with "assistant login", then use "assistant ask" for a single
command or "assistant listen" for continuous mode.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.WarnLevel)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		if sessionFile == "" {
			path, err := client.DefaultSessionPath()
			if err != nil {
				return fmt.Errorf("cannot locate session file: %w", err)
			}
			sessionFile = path
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("ASSISTANT_API_URL", defaultAPIURL), "assistant backend base URL")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", client.ThemePlain, "output theme: plain or styled")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", "", "session file (default in the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, askCmd, analyzeCmd, listenCmd)
}

func main() {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
