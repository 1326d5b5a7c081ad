package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var pingWatch time.Duration

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to Neo4j",
	Long: `Verify the configured Neo4j connection and report the round trip.
With --watch the check repeats until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func init() {
	pingCmd.Flags().DurationVar(&pingWatch, "watch", 0, "repeat the health check at this interval")
}

func runPing(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	status, err := client.CheckPoolHealth(ctx)
	if status != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (max pool size %d)\n", status.Message, client.GetPoolStats().MaxPoolSize)
	}
	if err != nil {
		return err
	}

	if pingWatch > 0 {
		client.WatchPoolHealth(ctx, pingWatch)
	}
	return nil
}
