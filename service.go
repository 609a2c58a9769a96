package uuidrange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/viant/afs"

	"github.com/uuidlab/uuidrange/runtime/generation"
	"github.com/uuidlab/uuidrange/service/dao"
	tmemory "github.com/uuidlab/uuidrange/service/dao/task/memory"
	"github.com/uuidlab/uuidrange/service/output"
	"github.com/uuidlab/uuidrange/tracing"
	"github.com/uuidlab/uuidrange/uuid/analysis"
	"github.com/uuidlab/uuidrange/uuid/generator"
	"github.com/uuidlab/uuidrange/uuid/ranges"
)

// ErrOutputUnavailable is returned when a task has no retrievable output —
// either it has not completed or its stream was discarded.
var ErrOutputUnavailable = errors.New("uuidrange: task output unavailable")

// perUUIDCost is the flat per-item cost model behind range duration
// estimates.
const perUUIDCost = 0.0001 // seconds

// Service is the facade tying the analyzer, the range estimator and the
// generation engine together.
type Service struct {
	cfg      *Config
	fs       afs.Service
	registry generation.Registry
	sink     *output.Store
	engine   *generation.Engine
}

// RangeEstimate sizes a prospective enumeration without running it.
type RangeEstimate struct {
	StartTime60      uint64  `json:"startTimestamp"`
	EndTime60        uint64  `json:"endTimestamp"`
	TotalPossible    uint64  `json:"totalPossible"`
	EstimatedSeconds float64 `json:"estimatedTimeSeconds"`
	EstimatedHuman   string  `json:"estimatedTimeHuman"`
}

// New creates the service.  The zero-option form uses the in-memory task
// registry and streams output under the default temp location.
func New(options ...Option) *Service {
	s := &Service{cfg: DefaultConfig()}
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	if s.cfg.Tracing.Enabled {
		_ = tracing.Init(s.cfg.Tracing.ServiceName, s.cfg.Tracing.ServiceVersion, s.cfg.Tracing.OutputFile)
	}
	s.engine = generation.New(s.registry, s.sink,
		generation.WithBatchSize(s.cfg.Engine.BatchSize),
		generation.WithQueueSize(s.cfg.Engine.QueueSize))
	return s
}

func (s *Service) ensureBaseSetup() {
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.registry == nil {
		s.registry = tmemory.New()
	}
	if s.sink == nil {
		s.sink = output.New(s.fs, s.cfg.Output.BaseURL)
	}
}

// Analyze decodes a single UUID.  The namespace hint only affects version-3
// results and may be empty.
func (s *Service) Analyze(ctx context.Context, uuidStr, namespace string) (*analysis.Record, error) {
	_, span := tracing.StartSpan(ctx, "uuid.analyze", "INTERNAL")
	record, err := analysis.Analyze(uuidStr, analysis.WithNamespace(namespace))
	tracing.EndSpan(span, err)
	return record, err
}

// Generate produces one UUID per the request and returns its analysis.
func (s *Service) Generate(ctx context.Context, req generator.Request) (*analysis.Record, error) {
	uuidStr, err := generator.New(req)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, uuidStr, req.Namespace)
}

// EstimateRange sizes the inclusive range between two time-based UUIDs.
// The endpoints may be passed in either order.
func (s *Service) EstimateRange(ctx context.Context, startUUID, endUUID string) (*RangeEstimate, error) {
	rng, err := ranges.New(startUUID, endUUID)
	if err != nil {
		return nil, err
	}
	total := rng.Total()
	secs := float64(total) * perUUIDCost
	return &RangeEstimate{
		StartTime60:      rng.Start,
		EndTime60:        rng.End,
		TotalPossible:    total,
		EstimatedSeconds: secs,
		EstimatedHuman:   humanizeSeconds(secs),
	}, nil
}

// StartRangeGeneration accepts a fire-and-forget enumeration request and
// returns the task id to poll.
func (s *Service) StartRangeGeneration(ctx context.Context, startUUID, endUUID string) (string, error) {
	return s.engine.Start(ctx, startUUID, endUUID)
}

// GetTaskStatus returns a snapshot of the task, or dao.ErrNotFound.
func (s *Service) GetTaskStatus(ctx context.Context, taskID string) (*generation.Task, error) {
	return s.registry.Load(ctx, taskID)
}

// CancelTask requests cooperative termination.  Cancelling an already
// finished task is acknowledged without effect.
func (s *Service) CancelTask(ctx context.Context, taskID string) error {
	return s.engine.Cancel(ctx, taskID)
}

// DeleteTaskRecord drops the bookkeeping entry only; a retained output
// stream stays behind for whoever serves downloads.
func (s *Service) DeleteTaskRecord(ctx context.Context, taskID string) error {
	return s.registry.Delete(ctx, taskID)
}

// ListTasks returns task snapshots, optionally narrowed to states.
func (s *Service) ListTasks(ctx context.Context, states ...string) ([]*generation.Task, error) {
	if len(states) == 0 {
		return s.registry.List(ctx)
	}
	return s.registry.List(ctx, dao.NewParameter("State", states...))
}

// WaitTask blocks until the task reaches a terminal state or the timeout
// elapses.  Intended for embedders and tests; polling GetTaskStatus is the
// normal observation path.
func (s *Service) WaitTask(ctx context.Context, taskID string, timeout time.Duration) (*generation.Task, error) {
	return s.engine.Wait(ctx, taskID, timeout)
}

// OpenTaskOutput reopens a completed task's line-oriented UUID stream.
func (s *Service) OpenTaskOutput(ctx context.Context, taskID string) (io.ReadCloser, error) {
	task, err := s.registry.Load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.State != generation.StateCompleted || task.OutputURL == "" {
		return nil, fmt.Errorf("%w: task %s is %s", ErrOutputUnavailable, taskID, task.State)
	}
	return s.sink.OpenReader(ctx, task.OutputURL)
}

// Shutdown cancels in-flight tasks and waits for the workers to drain.
func (s *Service) Shutdown() {
	s.engine.Shutdown()
}

// humanizeSeconds renders an estimate that may exceed what time.Duration can
// hold (ranges span up to 2^60 items).
func humanizeSeconds(secs float64) string {
	if ns := secs * float64(time.Second); ns < float64(math.MaxInt64) {
		return time.Duration(ns).Round(time.Millisecond).String()
	}
	years := secs / (365.25 * 24 * 3600)
	return fmt.Sprintf("about %.3g years", years)
}
