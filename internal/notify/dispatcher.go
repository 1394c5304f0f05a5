package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/platform/metrics"
)

type queued struct {
	event  domain.NotificationEvent
	logger *slog.Logger
}

// Dispatcher queues events and delivers them to every sink on one background
// worker. A full queue or a failing sink is logged and swallowed.
type Dispatcher struct {
	sinks  []Notifier
	queue  chan queued
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

var _ portssvc.NotificationPublisher = (*Dispatcher)(nil)

// NewDispatcher starts the delivery worker. Call Close to drain and stop it.
func NewDispatcher(logger *slog.Logger, buffer int, sinks ...Notifier) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	d := &Dispatcher{
		sinks:  sinks,
		queue:  make(chan queued, buffer),
		logger: logger,
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish enqueues event without blocking. The request-scoped logger travels
// with the event so delivery logs keep the request id.
func (d *Dispatcher) Publish(ctx context.Context, event domain.NotificationEvent) {
	logger := loggerFrom(ctx, d.logger)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.NotificationsDropped.WithLabelValues("closed").Inc()
		logger.Warn("Notification dropped, dispatcher closed", slog.String("kind", string(event.Kind)), slog.String("task_id", event.Task.TaskID))
		return
	}

	select {
	case d.queue <- queued{event: event, logger: logger}:
		metrics.NotificationQueueDepth.Inc()
	default:
		metrics.NotificationsDropped.WithLabelValues("queue_full").Inc()
		logger.Warn("Notification dropped, queue full", slog.String("kind", string(event.Kind)), slog.String("task_id", event.Task.TaskID))
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for item := range d.queue {
		metrics.NotificationQueueDepth.Dec()
		d.deliver(item)
	}
}

func (d *Dispatcher) deliver(item queued) {
	// Delivery must not inherit the request's cancellation.
	ctx := withLogger(context.Background(), item.logger)
	for _, sink := range d.sinks {
		if err := d.safeNotify(ctx, sink, item.event); err != nil {
			metrics.NotificationsDropped.WithLabelValues("sink_error").Inc()
			item.logger.Error("Notification sink failed",
				slog.String("error", err.Error()),
				slog.String("kind", string(item.event.Kind)),
				slog.String("task_id", item.event.Task.TaskID))
		}
	}
}

func (d *Dispatcher) safeNotify(ctx context.Context, sink Notifier, event domain.NotificationEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &sinkPanic{value: r}
		}
	}()
	return sink.Notify(ctx, event)
}

// Close stops accepting events, delivers what is queued and waits for the
// worker, or returns early when ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
