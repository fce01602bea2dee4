package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dengue-alert-service/internal/api"
	"dengue-alert-service/internal/config"
	"dengue-alert-service/internal/kafka"
	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/providers"
	"dengue-alert-service/internal/services"
	"dengue-alert-service/pkg/email"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the alert service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Close()

	// Initialize alert service
	svc := services.New(logger, cfg, buildDisplay(cfg, logger))
	var wg sync.WaitGroup
	if err := svc.Start(&wg); err != nil {
		return err
	}

	// Initialize Kafka consumer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer := kafka.NewConsumer(strings.Split(cfg.Kafka.Broker, ","), cfg.Kafka.Topic, cfg.Kafka.GroupID, svc, logger)
	consumer.Start(ctx, &wg)

	// Start API server
	handler := api.NewHandler(svc, logger)
	server := &http.Server{
		Addr:    cfg.API.Port,
		Handler: api.NewRouter(logger, cfg, handler),
	}
	go func() {
		logger.Infof("Starting API server on %s", cfg.API.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("API server failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Infof("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("API shutdown failed: %v", err)
	}
	cancel()
	svc.Stop()
	wg.Wait()
	if err := consumer.Close(); err != nil {
		logger.Errorf("Kafka consumer close failed: %v", err)
	}
	logger.Infof("Service stopped")
	return nil
}

// buildDisplay collects the configured background channels. The service
// log is always one of them.
func buildDisplay(cfg config.Config, logger *logging.Logger) providers.Display {
	displays := providers.MultiDisplay{providers.NewLogDisplay(logger)}

	if cfg.Telegram.BotToken != "" {
		tg, err := providers.NewTelegramDisplay(providers.TelegramConfig{
			BotToken:      cfg.Telegram.BotToken,
			ChatID:        cfg.Telegram.ChatID,
			RatePerSecond: cfg.Telegram.RateLimit,
		}, logger)
		if err != nil {
			logger.Warnf("Telegram display disabled: %v", err)
		} else {
			displays = append(displays, tg)
		}
	}

	if cfg.Email.SMTPServer != "" {
		server := email.Server{
			Host:     cfg.Email.SMTPServer,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			FromName: cfg.Email.FromName,
		}
		mail, err := providers.NewEmailDisplay(server, cfg.Email.To, logger)
		if err != nil {
			logger.Warnf("Email display disabled: %v", err)
		} else {
			displays = append(displays, mail)
		}
	}

	logger.Infof("Background displays configured: %d", len(displays))
	return displays
}
