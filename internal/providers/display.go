package providers

import (
	"context"
	"errors"

	"dengue-alert-service/internal/background"
	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/messaging"
	"dengue-alert-service/internal/models"
)

// LogDisplay writes notifications to the service log. It is the display
// used when no external channel is configured.
type LogDisplay struct {
	logger *logging.Logger
}

func NewLogDisplay(logger *logging.Logger) *LogDisplay {
	return &LogDisplay{logger: logger}
}

func (l *LogDisplay) Show(_ context.Context, n models.OSNotification) error {
	l.logger.WithField("icon", n.Icon).Infof("Notification: %s: %s", n.Title, n.Body)
	return nil
}

func (l *LogDisplay) PermissionStatus() messaging.PermissionState {
	return messaging.PermissionGranted
}

func (l *LogDisplay) RequestPermission(context.Context) (messaging.PermissionState, error) {
	return messaging.PermissionGranted, nil
}

// Display is a background display that also reports its permission.
type Display interface {
	background.Display
	messaging.Permission
}

// MultiDisplay shows every notification on all of its displays.
type MultiDisplay []Display

func (m MultiDisplay) Show(ctx context.Context, n models.OSNotification) error {
	var errs []error
	for _, d := range m {
		if err := d.Show(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PermissionStatus is granted only if every display is granted.
func (m MultiDisplay) PermissionStatus() messaging.PermissionState {
	st := messaging.PermissionGranted
	for _, d := range m {
		switch d.PermissionStatus() {
		case messaging.PermissionDenied:
			return messaging.PermissionDenied
		case messaging.PermissionDefault:
			st = messaging.PermissionDefault
		}
	}
	return st
}

func (m MultiDisplay) RequestPermission(ctx context.Context) (messaging.PermissionState, error) {
	var errs []error
	for _, d := range m {
		if _, err := messaging.EnsurePermission(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return m.PermissionStatus(), errors.Join(errs...)
}
