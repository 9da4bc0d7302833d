package notification

import (
	"context"

	"go.uber.org/zap"
)

// Dispatcher publishes notifications at most once. Callers treat errors as non fatal.
//
//go:generate mockgen -source=notification_dispatcher.go -destination=mock/notification_dispatcher_mock.go -package=mock
type Dispatcher interface {
	Dispatch(ctx context.Context, msgs ...Message) error
}

type directDispatcher struct {
	service Service
}

// NewDirectDispatcher stores notifications synchronously, for deployments without a broker.
func NewDirectDispatcher(service Service) Dispatcher {
	return &directDispatcher{service: service}
}

func (d *directDispatcher) Dispatch(ctx context.Context, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return d.service.Create(ctx, msgs...)
}

type noopDispatcher struct {
	logger *zap.Logger
}

func NewNoopDispatcher(logger ...*zap.Logger) Dispatcher {
	l := zap.L().Named("notification.noop")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.noop")
	}
	return noopDispatcher{logger: l}
}

func (d noopDispatcher) Dispatch(_ context.Context, msgs ...Message) error {
	d.logger.Debug("notifications dropped", zap.Int("count", len(msgs)))
	return nil
}
