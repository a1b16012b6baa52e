package sessionlog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/inkmatch/pkg/models"
)

type recordingSink struct {
	mu      sync.Mutex
	records []models.SessionRecord
	ctxErrs []error
}

func (s *recordingSink) Write(ctx context.Context, rec models.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return nil
}

func (s *recordingSink) snapshot() ([]models.SessionRecord, []error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SessionRecord(nil), s.records...), append([]error(nil), s.ctxErrs...)
}

func TestDispatcher_WritesRecord(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, Options{})

	d.Record(context.Background(), models.SessionRecord{SessionID: "a", RecommendedSketchIDs: []string{"1"}})
	require.NoError(t, d.Close(context.Background()))

	records, _ := sink.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].SessionID)
}

func TestDispatcher_SurvivesRequestCancellation(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Record(ctx, models.SessionRecord{SessionID: "cancelled"})
	require.NoError(t, d.Close(context.Background()))

	records, ctxErrs := sink.snapshot()
	require.Len(t, records, 1)
	assert.NoError(t, ctxErrs[0])
}

func TestDispatcher_SwallowsSinkErrors(t *testing.T) {
	var calls atomic.Int32
	sink := SinkFunc(func(ctx context.Context, rec models.SessionRecord) error {
		calls.Add(1)
		return errors.New("database unavailable")
	})
	d := NewDispatcher(sink, Options{})

	assert.NotPanics(t, func() {
		d.Record(context.Background(), models.SessionRecord{SessionID: "x"})
	})
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDispatcher_RecoversSinkPanic(t *testing.T) {
	sink := SinkFunc(func(ctx context.Context, rec models.SessionRecord) error {
		panic("boom")
	})
	d := NewDispatcher(sink, Options{})

	d.Record(context.Background(), models.SessionRecord{SessionID: "p"})
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_AppliesWriteTimeout(t *testing.T) {
	deadlineSeen := make(chan bool, 1)
	sink := SinkFunc(func(ctx context.Context, rec models.SessionRecord) error {
		_, ok := ctx.Deadline()
		deadlineSeen <- ok
		<-ctx.Done()
		return ctx.Err()
	})
	d := NewDispatcher(sink, Options{Timeout: 20 * time.Millisecond})

	d.Record(context.Background(), models.SessionRecord{SessionID: "slow"})
	require.NoError(t, d.Close(context.Background()))
	assert.True(t, <-deadlineSeen)
}

func TestDispatcher_DropsWhenSaturated(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var calls atomic.Int32
	sink := SinkFunc(func(ctx context.Context, rec models.SessionRecord) error {
		calls.Add(1)
		started <- struct{}{}
		<-release
		return nil
	})
	d := NewDispatcher(sink, Options{MaxInFlight: 1})

	d.Record(context.Background(), models.SessionRecord{SessionID: "first"})
	<-started
	d.Record(context.Background(), models.SessionRecord{SessionID: "second"})

	close(release)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, Options{})
	require.NoError(t, d.Close(context.Background()))

	d.Record(context.Background(), models.SessionRecord{SessionID: "late"})

	records, _ := sink.snapshot()
	assert.Empty(t, records)
}

func TestDispatcher_CloseHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	sink := SinkFunc(func(ctx context.Context, rec models.SessionRecord) error {
		<-release
		return nil
	})
	d := NewDispatcher(sink, Options{Timeout: time.Minute})
	d.Record(context.Background(), models.SessionRecord{SessionID: "stuck"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type fakeCreator struct {
	got *models.SessionRecord
}

func (f *fakeCreator) CreateSession(ctx context.Context, rec *models.SessionRecord) error {
	f.got = rec
	return nil
}

func TestStoreSink(t *testing.T) {
	store := &fakeCreator{}
	sink := NewStoreSink(store)

	require.NoError(t, sink.Write(context.Background(), models.SessionRecord{SessionID: "s", GeneratedPrompt: "p"}))
	require.NotNil(t, store.got)
	assert.Equal(t, "s", store.got.SessionID)
	assert.Equal(t, "p", store.got.GeneratedPrompt)
}
