// Package commands provides the portfolio-chat command line.
package commands

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"portfolio-chat/internal/logging"
	"portfolio-chat/internal/tui"
	"portfolio-chat/internal/types"
	"portfolio-chat/internal/widget"
)

const defaultEndpoint = "http://localhost:8080/api/chat"

var (
	endpointFlag string
	langFlag     string
	verboseFlag  bool

	// Version is set at build time.
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-chat",
	Short: "Terminal client for the portfolio chat assistant",
	Long: `portfolio-chat talks to a running chat proxy, the same way the website
widget does.

Examples:
  portfolio-chat                              Open the interactive chat
  portfolio-chat --lang de                    Start in German
  portfolio-chat ask "What does Gordon do?"   Send a single question`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verboseFlag {
			level = "debug"
		}
		logging.Configure(os.Stderr, level, "console")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(newClient(), language())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	endpoint := os.Getenv("PORTFOLIO_CHAT_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	rootCmd.PersistentFlags().StringVarP(&endpointFlag, "endpoint", "e", endpoint, "Chat proxy URL")
	rootCmd.PersistentFlags().StringVarP(&langFlag, "lang", "l", string(types.LanguageEnglish), "Language (en or de)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log request failures to stderr")

	rootCmd.AddCommand(askCmd)
}

func newClient() *widget.Client {
	return widget.NewClient(endpointFlag, &http.Client{Timeout: 90 * time.Second})
}

func language() types.Language {
	return types.ParseLanguage(langFlag)
}
