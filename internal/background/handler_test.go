package background

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const icon = "/assets/icons/icon-192x192.png"

type recordingDisplay struct {
	mu    sync.Mutex
	shown []models.OSNotification
	err   error
}

func (d *recordingDisplay) Show(_ context.Context, n models.OSNotification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.shown = append(d.shown, n)
	return nil
}

func (d *recordingDisplay) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.shown)
}

func newHandler(d Display) *Handler {
	return NewHandler(d, icon, logging.NewWriter(io.Discard, "debug"))
}

func TestHandleCopiesVerbatim(t *testing.T) {
	d := &recordingDisplay{}
	h := newHandler(d)

	err := h.Handle(context.Background(), models.Payload{
		Notification: &models.PayloadNotification{Title: "Surto", Body: "Foco identificado"},
		Data:         &models.PayloadData{Region: "Zona Sul", Level: "high"},
	})
	require.NoError(t, err)
	require.Len(t, d.shown, 1)
	assert.Equal(t, models.OSNotification{Title: "Surto", Body: "Foco identificado", Icon: icon}, d.shown[0])
}

func TestHandleDoesNotDefault(t *testing.T) {
	d := &recordingDisplay{}
	h := newHandler(d)

	require.NoError(t, h.Handle(context.Background(), models.Payload{Notification: &models.PayloadNotification{}}))
	assert.Equal(t, models.OSNotification{Icon: icon}, d.shown[0])
}

func TestHandleMalformedPayload(t *testing.T) {
	d := &recordingDisplay{}
	h := newHandler(d)

	err := h.Handle(context.Background(), models.Payload{Data: &models.PayloadData{Region: "Centro"}})
	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.Zero(t, d.count())
}

func TestHandleDisplayError(t *testing.T) {
	boom := errors.New("boom")
	h := newHandler(&recordingDisplay{err: boom})

	err := h.Handle(context.Background(), models.Payload{Notification: &models.PayloadNotification{Title: "t"}})
	assert.ErrorIs(t, err, boom)
}

func TestStartSurvivesBadPayload(t *testing.T) {
	d := &recordingDisplay{}
	h := newHandler(d)
	src := make(chan models.Payload, 3)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	h.Start(ctx, &wg, src)

	src <- models.Payload{}
	src <- models.Payload{Notification: &models.PayloadNotification{Title: "one"}}
	src <- models.Payload{Notification: &models.PayloadNotification{Title: "two"}}

	assert.Eventually(t, func() bool { return d.count() == 2 }, time.Second, 10*time.Millisecond)
	cancel()
	wg.Wait()

	assert.Equal(t, "one", d.shown[0].Title)
	assert.Equal(t, "two", d.shown[1].Title)
}
