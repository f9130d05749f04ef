package workers

import (
	"context"
	"time"

	"hermes/internal/domain/calendar"
	"hermes/internal/metrics"
)

// Notifier delivers digest text to a chat
type Notifier interface {
	SendMessage(chatID int64, text string) error
}

// CalendarProvider is the slice of the calendar service the digest needs
type CalendarProvider interface {
	GetCalendar(ctx context.Context, req calendar.Request) []calendar.Event
	FormatCalendar(events []calendar.Event, groupByCurrency bool) string
}

// CalendarDigestWorker periodically sends the day's economic calendar
// to the configured chats. Delivery failures to one chat do not stop
// delivery to the rest.
type CalendarDigestWorker struct {
	*BaseWorker
	provider CalendarProvider
	notifier Notifier
	chatIDs  []int64
}

// NewCalendarDigestWorker creates the digest worker
func NewCalendarDigestWorker(
	provider CalendarProvider,
	notifier Notifier,
	chatIDs []int64,
	interval time.Duration,
	enabled bool,
) *CalendarDigestWorker {
	return &CalendarDigestWorker{
		BaseWorker: NewBaseWorker("calendar_digest", interval, enabled),
		provider:   provider,
		notifier:   notifier,
		chatIDs:    chatIDs,
	}
}

// Run builds today's calendar and delivers it to every configured chat
func (w *CalendarDigestWorker) Run(ctx context.Context) error {
	if len(w.chatIDs) == 0 {
		w.Log().Debug("No digest chats configured, skipping")
		w.RecordRun()
		return nil
	}

	events := w.provider.GetCalendar(ctx, calendar.Request{
		MinImpact: calendar.ImpactLow,
		Mode:      calendar.FilterHighlight,
	})
	text := w.provider.FormatCalendar(events, true)

	var lastErr error
	for _, chatID := range w.chatIDs {
		if err := w.notifier.SendMessage(chatID, text); err != nil {
			metrics.DigestDeliveries.WithLabelValues("error").Inc()
			w.Log().Errorw("Failed to deliver calendar digest", "chat_id", chatID, "error", err)
			lastErr = err
			continue
		}
		metrics.DigestDeliveries.WithLabelValues("ok").Inc()
	}

	if lastErr != nil {
		w.RecordError(lastErr)
		return lastErr
	}

	w.Log().Infow("Calendar digest delivered", "chats", len(w.chatIDs), "events", len(events))
	w.RecordRun()
	return nil
}
