package sessionlog

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/inkmatch/pkg/models"
)

// TaskTypeSessionLog is the asynq task type carrying a session record.
const TaskTypeSessionLog = "inkmatch:session_log"

// DefaultQueue is the asynq queue session logs are enqueued on.
const DefaultQueue = "session_log"

// Enqueuer abstracts task enqueue operations.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var _ Enqueuer = (*asynq.Client)(nil)

// QueueSink hands records to a Redis-backed asynq queue, where a task
// handler writes them to the store. Tasks are not retried.
type QueueSink struct {
	client  Enqueuer
	queue   string
	timeout time.Duration
}

// NewQueueSink creates a sink that enqueues on queue.
func NewQueueSink(client Enqueuer, queue string, timeout time.Duration) *QueueSink {
	if queue == "" {
		queue = DefaultQueue
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &QueueSink{client: client, queue: queue, timeout: timeout}
}

// Write enqueues rec. ctx bounds the round trip to Redis.
func (q *QueueSink) Write(ctx context.Context, rec models.SessionRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	task := asynq.NewTask(TaskTypeSessionLog, b)
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(q.queue),
		asynq.TaskID(rec.SessionID),
		asynq.MaxRetry(0),
		asynq.Timeout(q.timeout),
	)
	if err != nil {
		return fmt.Errorf("enqueue session log: %w", err)
	}
	log.Debug().Str("session_id", rec.SessionID).Str("task_id", info.ID).Str("queue", info.Queue).Msg("Session log enqueued")
	return nil
}

// NewTaskHandler returns the asynq handler that writes queued records to sink.
func NewTaskHandler(sink Sink) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var rec models.SessionRecord
		if err := json.Unmarshal(t.Payload(), &rec); err != nil {
			return fmt.Errorf("decode session log payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := sink.Write(ctx, rec); err != nil {
			log.Warn().Err(err).Str("session_id", rec.SessionID).Msg("Failed to write queued session log")
			return err
		}
		return nil
	}
}

// NewServer builds an asynq server and mux that drain the session log queue
// into sink.
func NewServer(redisOpt asynq.RedisClientOpt, queue string, concurrency int, sink Sink) (*asynq.Server, *asynq.ServeMux) {
	if queue == "" {
		queue = DefaultQueue
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 1},
	})

	mux := asynq.NewServeMux()
	mux.Handle(TaskTypeSessionLog, NewTaskHandler(sink))
	return srv, mux
}
