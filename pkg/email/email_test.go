package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	s := Server{Host: "smtp.example.com", Port: 587, Username: "alerts@example.com", FromName: "Dengue Alerts"}
	date := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	msg, err := BuildMessage(s, "ana@example.com", "Surto", "Foco identificado\nZona Sul", date)
	require.NoError(t, err)

	text := string(msg)
	assert.Contains(t, text, "From: \"Dengue Alerts\" <alerts@example.com>\r\n")
	assert.Contains(t, text, "To: <ana@example.com>\r\n")
	assert.Contains(t, text, "Subject: Surto\r\n")
	assert.Contains(t, text, "Date: Fri, 14 Mar 2025 09:30:00 +0000\r\n")
	assert.Contains(t, text, "\r\n\r\nFoco identificado\r\nZona Sul\r\n")
}

func TestBuildMessageKeepsCRLFBody(t *testing.T) {
	msg, err := BuildMessage(Server{Username: "a@example.com"}, "b@example.com", "s", "linha 1\r\nlinha 2\nlinha 3", time.Now())
	require.NoError(t, err)

	text := string(msg)
	assert.Contains(t, text, "\r\n\r\nlinha 1\r\nlinha 2\r\nlinha 3\r\n")
	assert.NotContains(t, text, "\r\r\n")
}

func TestBuildMessageEncodesSubject(t *testing.T) {
	msg, err := BuildMessage(Server{Username: "a@example.com"}, "b@example.com", "Atenção", "x", time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(msg), "Subject: =?utf-8?q?Aten=C3=A7=C3=A3o?=\r\n")
}

func TestBuildMessageRejectsBadAddress(t *testing.T) {
	_, err := BuildMessage(Server{}, "not-an-address", "s", "b", time.Now())
	assert.Error(t, err)
}
