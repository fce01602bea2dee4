package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/messaging"
	"dengue-alert-service/internal/models"
	"dengue-alert-service/internal/utils"
)

// TelegramConfig holds the bot token and the chat notifications go to.
type TelegramConfig struct {
	BotToken      string
	ChatID        int64
	RatePerSecond int
	// ServerURL overrides the Bot API endpoint.
	ServerURL string
}

// TelegramDisplay shows notifications as Telegram messages.
type TelegramDisplay struct {
	bot     *bot.Bot
	chatID  int64
	limiter *rate.Limiter
	logger  *logging.Logger

	mu         sync.Mutex
	permission messaging.PermissionState
}

func NewTelegramDisplay(cfg TelegramConfig, logger *logging.Logger) (*TelegramDisplay, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("missing telegram bot token")
	}
	if cfg.ChatID == 0 {
		return nil, fmt.Errorf("missing telegram chat id")
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}

	opts := []bot.Option{bot.WithSkipGetMe()}
	if cfg.ServerURL != "" {
		opts = append(opts, bot.WithServerURL(cfg.ServerURL))
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return &TelegramDisplay{
		bot:        b,
		chatID:     cfg.ChatID,
		limiter:    rate.NewLimiter(rate.Limit(float64(cfg.RatePerSecond)), cfg.RatePerSecond),
		logger:     logger,
		permission: messaging.PermissionDefault,
	}, nil
}

// Show sends n to the configured chat.
func (t *TelegramDisplay) Show(ctx context.Context, n models.OSNotification) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit exceeded: %w", err)
	}

	text := fmt.Sprintf("*%s*\n%s", bot.EscapeMarkdown(n.Title), bot.EscapeMarkdown(n.Body))
	return utils.Retry(ctx, t.logger, 3, time.Second, func() error {
		params := &bot.SendMessageParams{
			ChatID:    t.chatID,
			Text:      text,
			ParseMode: tgmodels.ParseModeMarkdown,
		}
		if _, err := t.bot.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", t.chatID, err)
		}
		return nil
	})
}

func (t *TelegramDisplay) PermissionStatus() messaging.PermissionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.permission
}

// RequestPermission checks the bot token is accepted by the Bot API.
func (t *TelegramDisplay) RequestPermission(ctx context.Context) (messaging.PermissionState, error) {
	_, err := t.bot.GetMe(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.permission = messaging.PermissionDenied
		return t.permission, fmt.Errorf("telegram getMe failed: %w", err)
	}
	t.permission = messaging.PermissionGranted
	return t.permission, nil
}
