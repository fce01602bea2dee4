package alerts

import (
	"context"
	"errors"
	"sync"
	"time"

	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/messaging"
	"dengue-alert-service/internal/models"
)

var (
	ErrAlreadyInitialized = errors.New("alert store already initialized")
	ErrStoreDisposed      = errors.New("alert store disposed")
)

// State is the lifecycle state of the store's listener.
type State int

const (
	Unregistered State = iota
	Listening
	Disposed
)

func (s State) String() string {
	switch s {
	case Unregistered:
		return "unregistered"
	case Listening:
		return "listening"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// TokenSource issues the device token for this installation.
type TokenSource interface {
	GetToken(ctx context.Context, vapidKey string) (string, error)
}

// Options configures a Store.
type Options struct {
	// Source is the foreground inbound channel.
	Source <-chan models.Payload
	// Tokens and VapidKey drive the token request made by Init. Optional.
	Tokens   TokenSource
	VapidKey string
	// Permission is asked once by Init if not already granted. Optional.
	Permission messaging.Permission
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Limit caps the feed; the oldest alerts are dropped first. Zero means
	// no cap.
	Limit int
}

// Store owns the in-memory alert feed and the foreground listener that
// fills it. The feed is read newest first.
type Store struct {
	logger *logging.Logger
	opts   Options

	// alerts is kept oldest first so a new alert is an append.
	mu     sync.RWMutex
	alerts []models.Alert

	subMu   sync.Mutex
	subs    map[int]func(models.Alert)
	nextSub int

	stateMu sync.Mutex
	state   State
	cancel  context.CancelFunc
	workers sync.WaitGroup
}

func NewStore(logger *logging.Logger, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Store{
		logger: logger,
		opts:   opts,
		subs:   make(map[int]func(models.Alert)),
	}
}

// Init requests notification permission and a device token, then starts
// listening on the foreground channel. It can be called once.
func (s *Store) Init(ctx context.Context) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	switch s.state {
	case Listening:
		return ErrAlreadyInitialized
	case Disposed:
		return ErrStoreDisposed
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = Listening

	s.workers.Add(2)
	go s.register(ctx)
	go s.listen(ctx)
	s.logger.Infof("Alert store listening")
	return nil
}

// Dispose stops the listener, waits for the startup requests to return
// and drops all subscribers. The feed stays readable.
func (s *Store) Dispose() {
	s.stateMu.Lock()
	prev := s.state
	s.state = Disposed
	cancel := s.cancel
	s.stateMu.Unlock()

	if prev == Listening {
		cancel()
		s.workers.Wait()
	}

	s.subMu.Lock()
	s.subs = make(map[int]func(models.Alert))
	s.subMu.Unlock()
	if prev != Disposed {
		s.logger.Infof("Alert store disposed")
	}
}

// State reports the listener state.
func (s *Store) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// register performs the startup permission and token requests. Failures
// are absorbed: the feed works without a token.
func (s *Store) register(ctx context.Context) {
	defer s.workers.Done()
	if s.opts.Permission != nil {
		st, err := messaging.EnsurePermission(ctx, s.opts.Permission)
		if err != nil {
			s.logger.Debugf("Notification permission request failed: %v", err)
		} else {
			s.logger.Infof("Notification permission: %s", st)
		}
	}
	if s.opts.Tokens == nil {
		return
	}
	token, err := s.opts.Tokens.GetToken(ctx, s.opts.VapidKey)
	if err != nil {
		s.logger.Debugf("Device token request failed: %v", err)
		return
	}
	if token != "" {
		s.logger.Infof("Device token: %s", token)
	}
}

func (s *Store) listen(ctx context.Context) {
	defer s.workers.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-s.opts.Source:
			if !ok {
				return
			}
			s.logger.Debugf("Foreground message received")
			s.Prepend(NewAlert(p, s.opts.Clock()))
		}
	}
}

// Prepend inserts a at the head of the feed and notifies subscribers
// before returning.
func (s *Store) Prepend(a models.Alert) {
	s.mu.Lock()
	s.alerts = append(s.alerts, a)
	// Compact only once the backlog doubles the cap.
	if s.opts.Limit > 0 && len(s.alerts) >= 2*s.opts.Limit {
		s.alerts = append([]models.Alert(nil), s.window()...)
	}
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, fn := range s.subs {
		fn(a)
	}
}

// List returns a snapshot of the feed, newest first.
func (s *Store) List() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := s.window()
	out := make([]models.Alert, len(w))
	for i, a := range w {
		out[len(out)-1-i] = a
	}
	return out
}

// Latest returns the most recent alert.
func (s *Store) Latest() (models.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.alerts) == 0 {
		return models.Alert{}, false
	}
	return s.alerts[len(s.alerts)-1], true
}

// Len returns the number of alerts in the feed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.window())
}

// window is the visible part of alerts, oldest first. Callers hold mu.
func (s *Store) window() []models.Alert {
	if s.opts.Limit > 0 && len(s.alerts) > s.opts.Limit {
		return s.alerts[len(s.alerts)-s.opts.Limit:]
	}
	return s.alerts
}

// Subscribe registers fn to be called with every prepended alert. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(models.Alert)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}
