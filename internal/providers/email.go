package providers

import (
	"context"
	"fmt"
	"time"

	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/messaging"
	"dengue-alert-service/internal/models"
	"dengue-alert-service/internal/utils"
	"dengue-alert-service/pkg/email"
)

// EmailDisplay mails each notification to a fixed recipient.
type EmailDisplay struct {
	server email.Server
	to     string
	logger *logging.Logger
	send   func(email.Server, string, string, string) error
}

func NewEmailDisplay(server email.Server, to string, logger *logging.Logger) (*EmailDisplay, error) {
	if server.Host == "" || server.Port == 0 || server.Username == "" {
		return nil, fmt.Errorf("missing Email configuration: SMTPServer, SMTPPort or Username is empty")
	}
	if to == "" {
		return nil, fmt.Errorf("missing email recipient")
	}
	return &EmailDisplay{server: server, to: to, logger: logger, send: email.Send}, nil
}

func (e *EmailDisplay) Show(ctx context.Context, n models.OSNotification) error {
	return utils.Retry(ctx, e.logger, 3, 2*time.Second, func() error {
		if err := e.send(e.server, e.to, n.Title, n.Body); err != nil {
			return fmt.Errorf("failed to send email to %s: %w", e.to, err)
		}
		return nil
	})
}

// Mail needs no user consent; configuration was validated on construction.
func (e *EmailDisplay) PermissionStatus() messaging.PermissionState {
	return messaging.PermissionGranted
}

func (e *EmailDisplay) RequestPermission(context.Context) (messaging.PermissionState, error) {
	return messaging.PermissionGranted, nil
}
