package observe

import (
	"context"
	"log/slog"

	"github.com/vango-dev/mvi/pkg/mvi"
)

// LoggingObserver writes container activity to a structured logger.
type LoggingObserver struct {
	logger *slog.Logger
	level  slog.Level
}

// Logging returns an observer that logs every callback at level. Drops are
// always logged at warn level or above. If logger is nil, slog.Default() is
// used.
func Logging(logger *slog.Logger, level slog.Level) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger, level: level}
}

func (o *LoggingObserver) log(level slog.Level, msg string, attrs ...slog.Attr) {
	o.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// StateUpdated implements mvi.Observer.
func (o *LoggingObserver) StateUpdated(container string, version uint64, retries int) {
	o.log(o.level, "state updated",
		slog.String("container", container),
		slog.Uint64("version", version),
		slog.Int("retries", retries),
	)
}

// EventSent implements mvi.Observer.
func (o *LoggingObserver) EventSent(container string) {
	o.log(o.level, "event sent", slog.String("container", container))
}

// EventDelivered implements mvi.Observer.
func (o *LoggingObserver) EventDelivered(container string) {
	o.log(o.level, "event delivered", slog.String("container", container))
}

// EventDropped implements mvi.Observer.
func (o *LoggingObserver) EventDropped(container string, reason mvi.DropReason) {
	level := o.level
	if level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	o.log(level, "event dropped",
		slog.String("container", container),
		slog.String("reason", string(reason)),
	)
}

// SubscriptionStarted implements mvi.Observer.
func (o *LoggingObserver) SubscriptionStarted(container string) {
	o.log(o.level, "subscription started", slog.String("container", container))
}

// SubscriptionStopped implements mvi.Observer.
func (o *LoggingObserver) SubscriptionStopped(container string) {
	o.log(o.level, "subscription stopped", slog.String("container", container))
}
