package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dengue-alert-service",
	Short: "Receives dengue outbreak push messages and serves the alert feed",
	Long: `dengue-alert-service consumes push messages from Kafka. While a viewer is
attached to the live feed, messages become alerts in the feed; otherwise they
are shown as notifications on the configured display channels.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, publishCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
