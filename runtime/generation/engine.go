// Package generation runs range enumerations as cancellable background
// tasks.  Each accepted request gets one worker goroutine that streams
// encoded UUIDs through a bounded queue into its output sink while
// reporting progress to the task registry.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/uuidlab/uuidrange/internal/clock"
	"github.com/uuidlab/uuidrange/internal/idgen"
	"github.com/uuidlab/uuidrange/progress"
	"github.com/uuidlab/uuidrange/service/dao"
	"github.com/uuidlab/uuidrange/service/messaging"
	mmemory "github.com/uuidlab/uuidrange/service/messaging/memory"
	"github.com/uuidlab/uuidrange/service/output"
	"github.com/uuidlab/uuidrange/tracing"
	"github.com/uuidlab/uuidrange/uuid/codec"
	"github.com/uuidlab/uuidrange/uuid/ranges"
)

// Registry is the slice of the task store the engine depends on.  Update
// must apply the mutator as one atomic read-modify-write.
type Registry interface {
	dao.Service[string, Task]
	Update(ctx context.Context, id string, fn func(*Task)) error
}

// batch is one encoded chunk of output lines travelling from the enumerator
// to the sink writer.
type batch struct {
	data  []byte
	lines uint64
}

// Engine owns the generation workers.  Cancellation is cooperative: workers
// observe their task context at batch boundaries, never mid-line.
type Engine struct {
	registry  Registry
	sink      *output.Store
	batchSize int
	queueSize int

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// Option customizes the engine.
type Option func(e *Engine)

// WithBatchSize sets how many UUIDs are encoded between cancellation checks
// and progress updates.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithQueueSize sets how many encoded batches may be buffered between the
// enumerator and the sink writer.
func WithQueueSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.queueSize = n
		}
	}
}

// New creates an engine persisting tasks in registry and streams in sink.
func New(registry Registry, sink *output.Store, options ...Option) *Engine {
	e := &Engine{
		registry:  registry,
		sink:      sink,
		batchSize: 1000,
		queueSize: 16,
		cancels:   map[string]context.CancelFunc{},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Start accepts a generation request, registers a queued task and kicks off
// its worker.  The returned id is immediately pollable; the work itself
// proceeds asynchronously on a context detached from the request.
func (e *Engine) Start(ctx context.Context, startUUID, endUUID string) (string, error) {
	rng, err := ranges.New(startUUID, endUUID)
	if err != nil {
		return "", err
	}
	id := idgen.New()
	task := NewTask(id, startUUID, endUUID, rng.Total())
	if err := e.registry.Save(ctx, task); err != nil {
		return "", err
	}

	taskCtx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	e.cancels[id] = cancel
	e.mu.Unlock()

	e.wg.Add(1)
	go e.run(taskCtx, cancel, id, rng)
	return id, nil
}

// Cancel requests cooperative termination.  Cancelling a task that already
// reached a terminal state is a no-op, not an error.
func (e *Engine) Cancel(ctx context.Context, id string) error {
	// The terminal check and the flag write share one registry lock so a
	// cancel racing completion can never stamp a finished task.
	terminal := false
	err := e.registry.Update(ctx, id, func(t *Task) {
		if t.Terminal() {
			terminal = true
			return
		}
		t.Cancelled = true
		t.UpdatedAt = clock.Now()
	})
	if err != nil {
		return err
	}
	if terminal {
		return nil
	}
	e.mu.Lock()
	cancel := e.cancels[id]
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

// Wait polls the registry until the task reaches a terminal state or the
// timeout elapses.  It exists for embedders and tests; status polling is
// the normal observation path.
func (e *Engine) Wait(ctx context.Context, id string, timeout time.Duration) (*Task, error) {
	deadline := clock.Now().Add(timeout)
	for {
		task, err := e.registry.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		if task.Terminal() {
			return task, nil
		}
		if clock.Now().After(deadline) {
			return task, fmt.Errorf("generation: task %s did not finish within %s", id, timeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// Shutdown cancels every in-flight task and waits for the workers to drain.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	for _, cancel := range e.cancels {
		cancel()
	}
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Engine) run(ctx context.Context, cancel context.CancelFunc, id string, rng *ranges.Range) {
	defer e.wg.Done()
	defer e.release(id, cancel)
	defer func() {
		// A worker fault must never take the process down with it.
		if r := recover(); r != nil {
			e.fail(id, "", fmt.Errorf("worker panic: %v", r))
		}
	}()

	_, span := tracing.StartSpan(context.Background(), "generation.range", "INTERNAL")
	span.WithAttributes(map[string]string{"task.id": id, "range.total": fmt.Sprintf("%d", rng.Total())})
	var runErr error
	defer func() { tracing.EndSpan(span, runErr) }()

	e.update(id, func(t *Task) { t.State = StateGenerating })
	log.Printf("generation: task %s started, %d uuids", id, rng.Total())

	// The sink is opened before the first write so a concurrent status read
	// can already expose its location.
	URL, writer, err := e.sink.Open(context.Background(), id)
	if err != nil {
		runErr = err
		e.fail(id, "", err)
		return
	}
	e.update(id, func(t *Task) { t.OutputURL = URL })

	encoder, err := rng.Encoder()
	if err != nil {
		_ = writer.Close()
		runErr = err
		e.fail(id, URL, err)
		return
	}

	tracker := progress.New(id, rng.Total())
	tracker.OnChange(func(s progress.Snapshot) {
		percent := s.Percent()
		e.update(id, func(t *Task) {
			t.Count = s.Count
			if percent > t.Progress {
				t.Progress = percent
			}
		})
	})

	queue := mmemory.NewQueue[batch](e.queueSize)
	producerErr := make(chan error, 1)
	go func() {
		defer queue.Close()
		producerErr <- e.produce(ctx, rng, encoder, queue)
	}()

	var writeErr error
	for {
		b, err := queue.Consume(ctx)
		if err != nil {
			if !errors.Is(err, messaging.ErrClosed) {
				writeErr = err
			}
			break
		}
		if _, err := writer.Write(b.data); err != nil {
			writeErr = fmt.Errorf("sink write: %w", err)
			break
		}
		tracker.Add(b.lines)
	}

	// Unblock the producer before collecting its outcome.
	cancel()
	perr := <-producerErr

	cancelled := errors.Is(writeErr, context.Canceled) || errors.Is(perr, context.Canceled)
	if !cancelled {
		// One final check so a request that raced the last batch still wins.
		if t, err := e.registry.Load(context.Background(), id); err == nil && t.Cancelled {
			cancelled = true
		}
	}
	if cancelled {
		_ = writer.Close()
		_ = e.sink.Discard(context.Background(), URL)
		now := clock.Now()
		e.update(id, func(t *Task) {
			t.State = StateCancelled
			t.Cancelled = true
			t.OutputURL = ""
			t.FinishedAt = &now
		})
		log.Printf("generation: task %s cancelled after %d uuids", id, tracker.Snapshot().Count)
		return
	}
	if writeErr != nil || perr != nil {
		err := writeErr
		if err == nil {
			err = perr
		}
		_ = writer.Close()
		runErr = err
		e.fail(id, URL, err)
		return
	}
	if err := writer.Close(); err != nil {
		runErr = fmt.Errorf("sink close: %w", err)
		e.fail(id, URL, runErr)
		return
	}

	now := clock.Now()
	total := rng.Total()
	e.update(id, func(t *Task) {
		t.State = StateCompleted
		t.Progress = 100
		t.Count = total
		t.FinishedAt = &now
	})
	log.Printf("generation: task %s completed, %d uuids", id, total)
}

// produce walks the timestamp range in ascending order and publishes encoded
// batches.  Cancellation is observed once per batch; any per-item fault is
// fatal to the task rather than silently skipped.
func (e *Engine) produce(ctx context.Context, rng *ranges.Range, encoder *codec.Encoder, queue messaging.Queue[batch]) error {
	const lineWidth = 37 // 36 uuid digits plus newline
	size := uint64(e.batchSize)
	buf := make([]byte, 0, size*lineWidth)
	var lines uint64
	for ts := rng.Start; ; ts++ {
		buf = encoder.Append(buf, ts)
		lines++
		if lines == size || ts == rng.End {
			b := batch{data: buf, lines: lines}
			if err := queue.Publish(ctx, &b); err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			buf = make([]byte, 0, size*lineWidth)
			lines = 0
		}
		if ts == rng.End {
			return nil
		}
	}
}

func (e *Engine) update(id string, fn func(*Task)) {
	err := e.registry.Update(context.Background(), id, func(t *Task) {
		fn(t)
		t.UpdatedAt = clock.Now()
	})
	if err != nil {
		log.Printf("generation: task %s: registry update failed: %v", id, err)
	}
}

// fail moves the task into the error state and best-effort removes the
// partial sink.
func (e *Engine) fail(id, URL string, err error) {
	log.Printf("generation: task %s failed: %v", id, err)
	if URL != "" {
		_ = e.sink.Discard(context.Background(), URL)
	}
	now := clock.Now()
	e.update(id, func(t *Task) {
		t.State = StateError
		t.Error = err.Error()
		t.OutputURL = ""
		t.FinishedAt = &now
	})
}

func (e *Engine) release(id string, cancel context.CancelFunc) {
	cancel()
	e.mu.Lock()
	delete(e.cancels, id)
	e.mu.Unlock()
}
