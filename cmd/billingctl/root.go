package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"billing-backend/internal/apiclient"
	"billing-backend/internal/logger"
	"billing-backend/internal/timeutil"
)

var (
	serverURL string
	timeout   time.Duration
	logLevel  string
	timezone  string
)

var rootCmd = &cobra.Command{
	Use:   "billingctl",
	Short: "Command-line client for the billing API",
	Long: `billingctl lists, filters and exports invoices, contracts and expenses
through the billing REST API. Lists are fetched once and searched, sorted,
grouped and paginated locally with the same rules as the web views.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Setup(logger.LogConfig{Level: logLevel, Format: "console", Output: "stderr"}); err != nil {
			return err
		}
		return timeutil.SetLocation(timezone)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("billingctl")
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(serverURL, nil)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("BILLING_API_URL", "http://localhost:8080"), "billing API base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&timezone, "tz", envOr("BILLING_TIMEZONE", "UTC"), "timezone for dates and overdue checks")

	rootCmd.AddCommand(invoicesCmd, contractsCmd, expensesCmd)
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
