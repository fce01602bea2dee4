package email

import (
	"bytes"
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Server describes an SMTP submission endpoint.
type Server struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

// Send delivers a plain text message to a single recipient.
func Send(s Server, to, subject, body string) error {
	msg, err := BuildMessage(s, to, subject, body, time.Now())
	if err != nil {
		return err
	}
	var auth sasl.Client
	if s.Username != "" {
		auth = sasl.NewPlainClient("", s.Username, s.Password)
	}
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	return smtp.SendMail(addr, auth, s.Username, []string{to}, bytes.NewReader(msg))
}

// BuildMessage renders the RFC 5322 message sent by Send.
func BuildMessage(s Server, to, subject, body string, date time.Time) ([]byte, error) {
	rcpt, err := mail.ParseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("invalid email address %q: %w", to, err)
	}
	from := mail.Address{Name: s.FromName, Address: s.Username}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from.String())
	fmt.Fprintf(&b, "To: %s\r\n", rcpt.String())
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	body = strings.ReplaceAll(body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String()), nil
}
