// Package memory implements the in-memory task registry.  It is the single
// piece of shared mutable state between request handlers and generation
// workers, so every operation is guarded by one RWMutex and readers only
// ever see snapshot copies.
package memory

import (
	"context"
	"sync"

	"github.com/uuidlab/uuidrange/runtime/generation"
	"github.com/uuidlab/uuidrange/service/dao"
	"github.com/uuidlab/uuidrange/service/dao/criteria"
)

// Service implements a thread-safe store for generation tasks.
type Service struct {
	tasks map[string]*generation.Task
	mux   sync.RWMutex
}

var _ dao.Service[string, generation.Task] = (*Service)(nil)

func New() *Service {
	return &Service{tasks: map[string]*generation.Task{}}
}

func (s *Service) Save(_ context.Context, t *generation.Task) error {
	if t == nil {
		return dao.ErrNilEntity
	}
	if t.ID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if existing, ok := s.tasks[t.ID]; ok && existing != nil {
		existing.CopyFrom(t)
	} else {
		s.tasks[t.ID] = t.Clone()
	}
	return nil
}

// Load returns an independent snapshot so that a status poll never observes
// a torn write from the owning worker.
func (s *Service) Load(_ context.Context, id string) (*generation.Task, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	t, ok := s.tasks[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return t.Clone(), nil
}

// Update applies fn to the canonical task as one atomic read-modify-write.
func (s *Service) Update(_ context.Context, id string, fn func(*generation.Task)) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return dao.ErrNotFound
	}
	fn(t)
	return nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*generation.Task, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*generation.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !criteria.FilterByState(t.State, parameters) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out, nil
}
