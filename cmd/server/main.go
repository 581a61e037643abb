package main // Entry point package

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd is `hotel`; it does nothing without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "hotel",
	Short: "hotel runs the hotel management API and its background workers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env is fine; the environment may already be set
		_ = godotenv.Load()
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(consumeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
