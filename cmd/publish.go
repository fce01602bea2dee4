package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dengue-alert-service/internal/config"
	"dengue-alert-service/internal/kafka"
	"dengue-alert-service/internal/models"
)

var publishFlags struct {
	title  string
	body   string
	region string
	level  string
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a push message to the alert topic",
	Example: `  dengue-alert-service publish --title "Surto" --body "Foco identificado" \
    --region "Zona Sul" --level high`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		producer := kafka.NewProducer(cfg.Kafka.Broker, cfg.Kafka.Topic)
		defer producer.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if err := producer.Publish(ctx, buildPayload(cmd)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "published to %s\n", cfg.Kafka.Topic)
		return nil
	},
}

func init() {
	f := publishCmd.Flags()
	f.StringVar(&publishFlags.title, "title", "", "notification title")
	f.StringVar(&publishFlags.body, "body", "", "notification body")
	f.StringVar(&publishFlags.region, "region", "", "affected region")
	f.StringVar(&publishFlags.level, "level", "", `alert level ("high" for danger)`)
}

// buildPayload leaves out the parts whose flags were not given, so absent
// and empty can be exercised separately.
func buildPayload(cmd *cobra.Command) models.Payload {
	var p models.Payload
	flags := cmd.Flags()
	if flags.Changed("title") || flags.Changed("body") {
		p.Notification = &models.PayloadNotification{Title: publishFlags.title, Body: publishFlags.body}
	}
	if flags.Changed("region") || flags.Changed("level") {
		p.Data = &models.PayloadData{Region: publishFlags.region, Level: publishFlags.level}
	}
	return p
}
