package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/sweet-shop/internal/config"
	"github.com/spec-kit/sweet-shop/internal/events"
)

// NotificationService handles emitting notifications for stock events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to stock events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSweetPurchased, n.handleStockChanged)
	n.dispatcher.Subscribe(events.EventSweetRestocked, n.handleStockChanged)
	n.dispatcher.Subscribe(events.EventLowStock, n.handleLowStock)
}

func (n *NotificationService) handleStockChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("stock changed",
		zap.String("event_type", string(event.Type)),
		zap.String("sweet_id", event.SweetID),
		zap.String("subject", event.Subject),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleLowStock(ctx context.Context, event events.Event) error {
	n.logger.Warn("low stock",
		zap.String("sweet_id", event.SweetID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("sweet_id", event.SweetID),
		zap.String("event_type", string(event.Type)))
}
