// Package sessionlog records search sessions without holding up the response.
package sessionlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/thebtf/inkmatch/internal/telemetry"
	"github.com/thebtf/inkmatch/pkg/models"
)

// Default dispatcher settings.
const (
	DefaultMaxInFlight = 64
	DefaultTimeout     = 10 * time.Second
)

// Drop reasons reported to metrics.
const (
	DropSaturated = "saturated"
	DropClosed    = "closed"
)

// Sink persists one session record.
type Sink interface {
	Write(ctx context.Context, rec models.SessionRecord) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, rec models.SessionRecord) error

// Write calls f.
func (f SinkFunc) Write(ctx context.Context, rec models.SessionRecord) error {
	return f(ctx, rec)
}

// SessionCreator is the write half of a session store.
type SessionCreator interface {
	CreateSession(ctx context.Context, rec *models.SessionRecord) error
}

// StoreSink writes session records straight to a store.
type StoreSink struct {
	store SessionCreator
}

// NewStoreSink wraps a session store as a Sink.
func NewStoreSink(store SessionCreator) *StoreSink {
	return &StoreSink{store: store}
}

// Write inserts rec.
func (s *StoreSink) Write(ctx context.Context, rec models.SessionRecord) error {
	return s.store.CreateSession(ctx, &rec)
}

// Options configures a Dispatcher.
type Options struct {
	// MaxInFlight bounds concurrent writes; records beyond it are dropped.
	MaxInFlight int64
	// Timeout bounds each write, independent of the originating request.
	Timeout time.Duration
	Metrics *telemetry.Metrics
}

// Dispatcher hands session records to a Sink on background goroutines.
// Record never blocks and never reports failure to the caller.
type Dispatcher struct {
	sink    Sink
	sem     *semaphore.Weighted
	metrics *telemetry.Metrics
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher writing to sink.
func NewDispatcher(sink Sink, opts Options) *Dispatcher {
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = DefaultMaxInFlight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Dispatcher{
		sink:    sink,
		sem:     semaphore.NewWeighted(opts.MaxInFlight),
		metrics: opts.Metrics,
		timeout: opts.Timeout,
	}
}

// Record schedules rec to be written. The write outlives ctx's cancellation
// but keeps its values.
func (d *Dispatcher) Record(ctx context.Context, rec models.SessionRecord) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.drop(ctx, rec.SessionID, DropClosed)
		return
	}
	if !d.sem.TryAcquire(1) {
		d.mu.Unlock()
		d.drop(ctx, rec.SessionID, DropSaturated)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go d.write(context.WithoutCancel(ctx), rec)
}

func (d *Dispatcher) write(parent context.Context, rec models.SessionRecord) {
	defer d.wg.Done()
	defer d.sem.Release(1)

	ctx, cancel := context.WithTimeout(parent, d.timeout)
	defer cancel()

	err := d.safeWrite(ctx, rec)
	d.metrics.RecordSessionLog(ctx, err)
	if err != nil {
		log.Warn().Err(err).Str("session_id", rec.SessionID).Msg("Failed to log session")
		return
	}
	log.Debug().Str("session_id", rec.SessionID).Int("sketches", len(rec.RecommendedSketchIDs)).Msg("Session logged")
}

func (d *Dispatcher) safeWrite(ctx context.Context, rec models.SessionRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session sink panic: %v", r)
		}
	}()
	return d.sink.Write(ctx, rec)
}

func (d *Dispatcher) drop(ctx context.Context, sessionID, reason string) {
	d.metrics.RecordDroppedSessionLog(ctx, reason)
	log.Warn().Str("session_id", sessionID).Str("reason", reason).Msg("Session log dropped")
}

// Close stops accepting records and waits for in-flight writes, or for ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("session log drain incomplete"), ctx.Err())
	}
}
