package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Kafka struct {
		Broker  string
		Topic   string
		GroupID string
	}
	Messaging struct {
		ProjectID string
		SenderID  string
		VapidKey  string
	}
	API struct {
		Port     string
		BasePath string
	}
	Notification struct {
		QueueSize int
		Icon      string
		FeedLimit int
	}
	Telegram struct {
		BotToken  string
		ChatID    int64
		RateLimit int
	}
	Email struct {
		SMTPServer string
		SMTPPort   int
		Username   string
		Password   string
		FromName   string
		To         string
	}
	Logging struct {
		Dir   string
		Level string
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit .env path. A missing file is not an error.
func LoadFile(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	// Kafka settings
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	// Messaging provider identity
	cfg.Messaging.ProjectID = os.Getenv("MESSAGING_PROJECT_ID")
	cfg.Messaging.SenderID = os.Getenv("MESSAGING_SENDER_ID")
	cfg.Messaging.VapidKey = os.Getenv("MESSAGING_VAPID_KEY")

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	// Notification settings
	if qs, err := strconv.Atoi(os.Getenv("QUEUE_SIZE")); err == nil {
		cfg.Notification.QueueSize = qs
	}
	cfg.Notification.Icon = os.Getenv("NOTIFICATION_ICON")
	if fl, err := strconv.Atoi(os.Getenv("FEED_LIMIT")); err == nil {
		cfg.Notification.FeedLimit = fl
	}

	// Telegram settings
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if id, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		cfg.Telegram.ChatID = id
	}
	if rl, err := strconv.Atoi(os.Getenv("TELEGRAM_RATE_LIMIT")); err == nil {
		cfg.Telegram.RateLimit = rl
	}

	// Email settings
	cfg.Email.SMTPServer = os.Getenv("EMAIL_SMTP_SERVER")
	if p, err := strconv.Atoi(os.Getenv("EMAIL_SMTP_PORT")); err == nil {
		cfg.Email.SMTPPort = p
	}
	cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	cfg.Email.FromName = os.Getenv("EMAIL_FROM_NAME")
	cfg.Email.To = os.Getenv("EMAIL_TO")

	// Logging
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.Kafka.Broker == "" {
		missing = append(missing, "KAFKA_BROKER")
	}
	if cfg.Messaging.VapidKey == "" {
		missing = append(missing, "MESSAGING_VAPID_KEY")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "dengue_alerts"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "dengue-alert-service"
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":9191"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.Notification.QueueSize == 0 {
		cfg.Notification.QueueSize = 100
	}
	if cfg.Notification.Icon == "" {
		cfg.Notification.Icon = "/assets/icons/icon-192x192.png"
	}
	if cfg.Notification.FeedLimit == 0 {
		cfg.Notification.FeedLimit = 500
	}
	if cfg.Telegram.RateLimit == 0 {
		cfg.Telegram.RateLimit = 1
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}
