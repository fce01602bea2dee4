package messaging

import (
	"context"

	"dengue-alert-service/internal/models"
)

// Context names the execution context a payload was delivered to.
type Context string

const (
	Foreground Context = "foreground"
	Background Context = "background"
)

// Presence reports whether a viewer currently has the alert feed open.
type Presence interface {
	Active() bool
}

// Router hands each payload to exactly one context: the foreground
// listener while a viewer is attached, the background handler otherwise.
type Router struct {
	presence   Presence
	foreground chan models.Payload
	background chan models.Payload
}

func NewRouter(presence Presence, queueSize int) *Router {
	if queueSize < 0 {
		queueSize = 0
	}
	return &Router{
		presence:   presence,
		foreground: make(chan models.Payload, queueSize),
		background: make(chan models.Payload, queueSize),
	}
}

// Foreground is the inbound channel of the foreground listener.
func (r *Router) Foreground() <-chan models.Payload {
	return r.foreground
}

// Background is the inbound channel of the background handler.
func (r *Router) Background() <-chan models.Payload {
	return r.background
}

// Deliver routes p and blocks until the target context accepts it or ctx
// is done. It returns the context the payload was sent to.
func (r *Router) Deliver(ctx context.Context, p models.Payload) (Context, error) {
	target, ch := Background, r.background
	if r.presence != nil && r.presence.Active() {
		target, ch = Foreground, r.foreground
	}
	select {
	case ch <- p:
		return target, nil
	case <-ctx.Done():
		return target, ctx.Err()
	}
}
