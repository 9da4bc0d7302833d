package bootstrap

import (
	"context"
	"time"

	"go-hrms/internal/shared/clock"
	"go-hrms/internal/shared/contextutil"

	"go.uber.org/zap"
)

type StdoutAuditLogger struct {
	logger *zap.Logger
	clock  clock.Clock
}

func NewStdoutAuditLogger(clk clock.Clock, logger ...*zap.Logger) *StdoutAuditLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &StdoutAuditLogger{logger: l, clock: clk}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	contextutil.GetLogger(ctx, l.logger).Info("audit event",
		zap.String("timestamp", l.clock.Now().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
