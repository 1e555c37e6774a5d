package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing queue or producer")

// Queue is the store surface the relay drives.
type Queue interface {
	Claim(ctx context.Context, workerID string, staleAfter time.Duration) (*PendingEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error
}

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker drains the outbox into Kafka, framing each event as a
// CloudEvent keyed by aggregate id. Events claimed by a worker that
// died are reclaimed after StaleAfter.
type Worker struct {
	Queue       Queue
	Producer    Producer
	Interval    time.Duration
	TopicPrefix string
	Source      string
	ID          string
	Backoff     []time.Duration
	StaleAfter  time.Duration
	Logger      *slog.Logger
}

// drainBatch bounds how many events one tick ships so a long backlog
// cannot starve the ticker.
const drainBatch = 64

func (w *Worker) Run(ctx context.Context) error {
	if w.Queue == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context) error {
	for i := 0; i < drainBatch; i++ {
		event, err := w.Queue.Claim(ctx, w.workerID(), w.staleAfter())
		if err != nil {
			return err
		}
		if event == nil {
			return nil
		}
		if err := w.ship(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) ship(ctx context.Context, event *PendingEvent) error {
	payload, err := w.envelope(event)
	if err != nil {
		// A payload that cannot be framed will never succeed; park it
		// on the retry schedule where it stays visible to operators.
		w.logger().Error("outbox event not publishable", "event_id", event.ID, "error", err)
		return w.Queue.MarkFailed(ctx, event.ID, w.retryAt(event.Attempts), err.Error())
	}
	headers := map[string]string{"content-type": "application/cloudevents+json"}
	for k, v := range event.Headers {
		headers[k] = v
	}
	if err := w.Producer.Publish(ctx, w.topicFor(event.Name), event.Aggregate, payload, headers); err != nil {
		w.logger().Warn("outbox publish failed", "event_id", event.ID, "attempts", event.Attempts+1, "error", err)
		return w.Queue.MarkFailed(ctx, event.ID, w.retryAt(event.Attempts), err.Error())
	}
	return w.Queue.MarkSent(ctx, event.ID)
}

type cloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
	TraceParent     string          `json:"traceparent,omitempty"`
}

func (w *Worker) envelope(event *PendingEvent) ([]byte, error) {
	if !json.Valid(event.Payload) {
		return nil, errors.New("outbox: event payload is not valid JSON")
	}
	return json.Marshal(cloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.NewString(),
		Type:            event.Name + ".v1",
		Source:          w.source(),
		Time:            event.OccurredAt,
		DataContentType: "application/json",
		Data:            json.RawMessage(event.Payload),
		TraceParent:     event.Headers["traceparent"],
	})
}

// topicFor maps an event onto its aggregate stream: order.* events go
// to orders, tour.* events to tours. Anything else lands on a shared
// app stream.
func (w *Worker) topicFor(name string) string {
	stream := "app"
	switch {
	case strings.HasPrefix(name, "order."):
		stream = "orders"
	case strings.HasPrefix(name, "tour."):
		stream = "tours"
	}
	return w.TopicPrefix + stream + ".events.v1"
}

func (w *Worker) retryAt(attempts int) time.Time {
	delay := 5 * time.Second
	if n := len(w.Backoff); n > 0 {
		if attempts >= n {
			attempts = n - 1
		}
		delay = w.Backoff[attempts]
	}
	return time.Now().UTC().Add(delay)
}

func (w *Worker) workerID() string {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return w.ID
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) staleAfter() time.Duration {
	if w.StaleAfter <= 0 {
		return 5 * time.Minute
	}
	return w.StaleAfter
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://tourline"
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
