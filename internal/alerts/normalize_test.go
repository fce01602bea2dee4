package alerts

import (
	"testing"
	"time"

	"dengue-alert-service/internal/models"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestNewAlertTitle(t *testing.T) {
	tests := []struct {
		name    string
		payload models.Payload
		want    string
	}{
		{name: "present", payload: models.Payload{Notification: &models.PayloadNotification{Title: "Surto"}}, want: "Surto"},
		{name: "empty", payload: models.Payload{Notification: &models.PayloadNotification{Title: ""}}, want: DefaultTitle},
		{name: "no notification", payload: models.Payload{}, want: DefaultTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewAlert(tt.payload, fixedNow).Title)
		})
	}
}

func TestNewAlertEmptyFieldsFallBack(t *testing.T) {
	tests := []struct {
		name    string
		payload models.Payload
		message string
		region  string
	}{
		{
			name:    "empty body",
			payload: models.Payload{Notification: &models.PayloadNotification{Title: "T", Body: ""}},
			message: DefaultMessage,
			region:  DefaultRegion,
		},
		{
			name:    "empty region",
			payload: models.Payload{Data: &models.PayloadData{Region: ""}},
			message: DefaultMessage,
			region:  DefaultRegion,
		},
		{
			name: "both present",
			payload: models.Payload{
				Notification: &models.PayloadNotification{Body: "Foco"},
				Data:         &models.PayloadData{Region: "Centro"},
			},
			message: "Foco",
			region:  "Centro",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAlert(tt.payload, fixedNow)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, tt.region, got.Region)
		})
	}

	got := NewAlert(models.Payload{
		Notification: &models.PayloadNotification{Title: "T", Body: ""},
		Data:         &models.PayloadData{Region: "", Level: ""},
	}, fixedNow)
	assert.Equal(t, models.Alert{
		Title:      "T",
		Message:    DefaultMessage,
		Region:     DefaultRegion,
		Severity:   models.SeverityWarning,
		ReceivedAt: fixedNow,
	}, got)
}

func TestSeverityFromLevel(t *testing.T) {
	tests := []struct {
		level string
		want  models.Severity
	}{
		{level: "high", want: models.SeverityDanger},
		{level: "", want: models.SeverityWarning},
		{level: "low", want: models.SeverityWarning},
		{level: "HIGH", want: models.SeverityWarning},
		{level: " high", want: models.SeverityWarning},
		{level: "danger", want: models.SeverityWarning},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got := NewAlert(models.Payload{Data: &models.PayloadData{Level: tt.level}}, fixedNow)
			assert.Equal(t, tt.want, got.Severity)
			assert.True(t, got.Severity.Valid())
		})
	}
}

func TestNewAlertScenarios(t *testing.T) {
	t.Run("data only", func(t *testing.T) {
		got := NewAlert(models.Payload{Data: &models.PayloadData{Region: "Zona Sul", Level: "high"}}, fixedNow)
		assert.Equal(t, models.Alert{
			Title:      "Dengue Alert",
			Message:    "Watch for standing water.",
			Region:     "Zona Sul",
			Severity:   models.SeverityDanger,
			ReceivedAt: fixedNow,
		}, got)
	})

	t.Run("notification only", func(t *testing.T) {
		got := NewAlert(models.Payload{Notification: &models.PayloadNotification{Title: "Surto", Body: "Foco identificado"}}, fixedNow)
		assert.Equal(t, models.Alert{
			Title:      "Surto",
			Message:    "Foco identificado",
			Region:     "General",
			Severity:   models.SeverityWarning,
			ReceivedAt: fixedNow,
		}, got)
	})
}

func TestNewAlertDefaultsAreIdempotent(t *testing.T) {
	explicit := models.Payload{
		Notification: &models.PayloadNotification{Title: DefaultTitle, Body: DefaultMessage},
		Data:         &models.PayloadData{Region: DefaultRegion},
	}
	assert.Equal(t, NewAlert(models.Payload{}, fixedNow), NewAlert(explicit, fixedNow))
}

func TestNewAlertFromWire(t *testing.T) {
	p, err := models.ParsePayload([]byte(`{"notification":{"body":"Foco"},"data":{"region":"Centro","level":"high","extra":"x"}}`))
	assert.NoError(t, err)

	got := NewAlert(p, fixedNow)
	assert.Equal(t, DefaultTitle, got.Title)
	assert.Equal(t, "Foco", got.Message)
	assert.Equal(t, "Centro", got.Region)
	assert.Equal(t, models.SeverityDanger, got.Severity)
}
