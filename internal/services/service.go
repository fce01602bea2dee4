package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"dengue-alert-service/internal/alerts"
	"dengue-alert-service/internal/background"
	"dengue-alert-service/internal/config"
	"dengue-alert-service/internal/logging"
	"dengue-alert-service/internal/messaging"
	"dengue-alert-service/internal/models"
	"dengue-alert-service/internal/providers"
)

// Service owns both delivery contexts: the foreground alert store fed
// while viewers are attached and the background handler used otherwise.
type Service struct {
	logger      *logging.Logger
	config      config.Config
	provider    *messaging.Provider
	router      *messaging.Router
	store       *alerts.Store
	background  *background.Handler
	wsManager   *WebSocketManager
	unsubscribe func()
	ctx         context.Context
	cancel      context.CancelFunc
}

// New constructs a Service showing background notifications on display.
func New(logger *logging.Logger, cfg config.Config, display providers.Display) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	wsManager := NewWebSocketManager(logger)
	router := messaging.NewRouter(wsManager, cfg.Notification.QueueSize)
	provider := messaging.NewProvider(messaging.Identity{
		ProjectID: cfg.Messaging.ProjectID,
		SenderID:  cfg.Messaging.SenderID,
	})
	store := alerts.NewStore(logger.WithField("context", messaging.Foreground), alerts.Options{
		Source:     router.Foreground(),
		Tokens:     provider,
		VapidKey:   cfg.Messaging.VapidKey,
		Permission: display,
		Limit:      cfg.Notification.FeedLimit,
	})
	return &Service{
		logger:     logger,
		config:     cfg,
		provider:   provider,
		router:     router,
		store:      store,
		background: background.NewHandler(display, cfg.Notification.Icon, logger.WithField("context", messaging.Background)),
		wsManager:  wsManager,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Logger exposes the Service's logger
func (s *Service) Logger() *logging.Logger {
	return s.logger
}

// Start initializes the alert store and launches the background handler.
func (s *Service) Start(wg *sync.WaitGroup) error {
	s.unsubscribe = s.store.Subscribe(s.wsManager.Broadcast)
	if err := s.store.Init(s.ctx); err != nil {
		return fmt.Errorf("init alert store: %w", err)
	}
	s.background.Start(s.ctx, wg, s.router.Background())
	return nil
}

// Stop disposes the store, stops the background handler and disconnects
// viewers.
func (s *Service) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.store.Dispose()
	s.cancel()
	s.wsManager.CloseAll()
}

// Deliver routes an inbound payload to the active context.
func (s *Service) Deliver(ctx context.Context, p models.Payload) (messaging.Context, error) {
	target, err := s.router.Deliver(ctx, p)
	if err != nil {
		return target, fmt.Errorf("deliver to %s: %w", target, err)
	}
	s.logger.Debugf("Payload delivered to %s", target)
	return target, nil
}

// Alerts returns the feed, newest first.
func (s *Service) Alerts() []models.Alert {
	return s.store.List()
}

// LatestAlert returns the most recent alert, if any.
func (s *Service) LatestAlert() (models.Alert, bool) {
	return s.store.Latest()
}

// Token returns the device token obtained at startup.
func (s *Service) Token() string {
	return s.provider.Token()
}

// Viewers returns the number of attached feed viewers.
func (s *Service) Viewers() int {
	return s.wsManager.Count()
}

// AddWebSocketConnection attaches a feed viewer.
func (s *Service) AddWebSocketConnection(conn *websocket.Conn) error {
	return s.wsManager.AddConnection(conn)
}

// RemoveWebSocketConnection detaches a feed viewer.
func (s *Service) RemoveWebSocketConnection(conn *websocket.Conn) {
	s.wsManager.RemoveConnection(conn)
}
