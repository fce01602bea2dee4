package messaging

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrMissingVapidKey = errors.New("vapid key is required")
	ErrInvalidVapidKey = errors.New("vapid key is not an uncompressed P-256 public key")
)

// Identity is the project the installation registers under.
type Identity struct {
	ProjectID string
	SenderID  string
}

// Provider issues the device token identifying this installation as a
// delivery target. The token is created on first request and stays the
// same for the provider's lifetime.
type Provider struct {
	identity Identity

	mu    sync.Mutex
	token string
}

func NewProvider(identity Identity) *Provider {
	return &Provider{identity: identity}
}

// GetToken returns the installation token, authorizing the request with
// the public application server key.
func (p *Provider) GetToken(ctx context.Context, vapidKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateVapidKey(vapidKey); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token == "" {
		p.token = fmt.Sprintf("%s:%s", p.namespace(), uuid.NewString())
	}
	return p.token, nil
}

// Token returns the token issued so far, or "" if none was requested.
func (p *Provider) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

func (p *Provider) namespace() string {
	switch {
	case p.identity.SenderID != "":
		return p.identity.SenderID
	case p.identity.ProjectID != "":
		return p.identity.ProjectID
	default:
		return "local"
	}
}

// validateVapidKey checks the key is a base64url encoded 65-byte
// uncompressed EC point.
func validateVapidKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrMissingVapidKey
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(key, "="))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidVapidKey, err)
	}
	if len(raw) != 65 || raw[0] != 0x04 {
		return ErrInvalidVapidKey
	}
	return nil
}
