package background

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/models"
)

// ErrMalformedPayload is returned for payloads without a notification object.
var ErrMalformedPayload = errors.New("payload has no notification")

// Display is the platform facility that shows a notification to the user.
type Display interface {
	Show(ctx context.Context, n models.OSNotification) error
}

// Handler turns payloads delivered while no viewer is attached into
// platform notifications. It never touches the alert feed.
type Handler struct {
	display Display
	icon    string
	logger  *logging.Logger
}

func NewHandler(display Display, icon string, logger *logging.Logger) *Handler {
	return &Handler{display: display, icon: icon, logger: logger}
}

// Handle shows p's title and body verbatim with the fixed icon.
func (h *Handler) Handle(ctx context.Context, p models.Payload) error {
	if p.Notification == nil {
		return ErrMalformedPayload
	}
	n := models.OSNotification{
		Title: p.Notification.Title,
		Body:  p.Notification.Body,
		Icon:  h.icon,
	}
	if err := h.display.Show(ctx, n); err != nil {
		return fmt.Errorf("show notification %q: %w", n.Title, err)
	}
	return nil
}

// Start consumes src until it is closed or ctx is done. A failing payload
// only affects its own invocation.
func (h *Handler) Start(ctx context.Context, wg *sync.WaitGroup, src <-chan models.Payload) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.logger.Infof("Background handler started")
		for {
			select {
			case <-ctx.Done():
				h.logger.Infof("Background handler stopped")
				return
			case p, ok := <-src:
				if !ok {
					h.logger.Infof("Background handler stopped: channel closed")
					return
				}
				if err := h.Handle(ctx, p); err != nil {
					h.logger.Errorf("Background message failed: %v", err)
					continue
				}
				h.logger.Debugf("Background notification shown")
			}
		}
	}()
}
