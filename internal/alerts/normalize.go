package alerts

import (
	"time"

	"dengue-alert-service/internal/models"
)

const (
	DefaultTitle   = "Dengue Alert"
	DefaultMessage = "Watch for standing water."
	DefaultRegion  = "General"

	// dangerLevel is the only upstream level that maps to SeverityDanger.
	dangerLevel = "high"
)

// NewAlert normalizes a push payload into an Alert received at now.
func NewAlert(p models.Payload, now time.Time) models.Alert {
	a := models.Alert{
		Title:      DefaultTitle,
		Message:    DefaultMessage,
		Region:     DefaultRegion,
		Severity:   models.SeverityWarning,
		ReceivedAt: now,
	}
	if n := p.Notification; n != nil {
		if n.Title != "" {
			a.Title = n.Title
		}
		if n.Body != "" {
			a.Message = n.Body
		}
	}
	if d := p.Data; d != nil {
		if d.Region != "" {
			a.Region = d.Region
		}
		a.Severity = SeverityFromLevel(d.Level)
	}
	return a
}

// SeverityFromLevel maps the upstream level field. Anything but an exact
// "high" is a warning.
func SeverityFromLevel(level string) models.Severity {
	if level == dangerLevel {
		return models.SeverityDanger
	}
	return models.SeverityWarning
}
