package listeners

import (
	"context"
	"fmt"

	"car-rental/internal/events"
	"car-rental/internal/services"
	"car-rental/pkg/eventbus"

	"go.uber.org/zap"
)

// NotificationListener turns domain events into mails.
type NotificationListener struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationListener(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{
		notificationService: notificationService,
		logger:              logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.UserRegisteredName, l.handleUserRegistered)
	bus.Subscribe(events.RentCreatedName, l.handleRentCreated)
	l.logger.Info("notification listener subscribed",
		zap.Strings("events", []string{events.UserRegisteredName, events.RentCreatedName}))
}

func (l *NotificationListener) handleUserRegistered(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.UserRegisteredEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	return l.notificationService.SendWelcome(ctx, event.Email, event.UserName)
}

func (l *NotificationListener) handleRentCreated(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.RentCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	return l.notificationService.SendRentConfirmation(ctx, event.UserID, event.Car, event.DateIn)
}
