// Package output manages the sinks that range generation streams into: one
// uniquely named, append-only, line-oriented stream per task.  All storage
// access goes through viant/afs so tests can run against mem:// and
// deployments against file:// or any other supported scheme.
package output

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/uuidlab/uuidrange/internal/clock"
)

// Store creates, discards and reopens task output streams under one base
// location.
type Store struct {
	fs      afs.Service
	baseURL string
}

// New creates a store rooted at baseURL.  The base location is created on
// first open when missing.
func New(fs afs.Service, baseURL string) *Store {
	if fs == nil {
		fs = afs.New()
	}
	return &Store{fs: fs, baseURL: url.Normalize(baseURL, file.Scheme)}
}

// BaseURL returns the normalized base location.
func (s *Store) BaseURL() string {
	return s.baseURL
}

// Open creates the uniquely named sink for a task and returns its URL along
// with the writer.  The stream exists (empty) before the first UUID is
// written, so a concurrent status read can already expose its location.
func (s *Store) Open(ctx context.Context, taskID string) (string, io.WriteCloser, error) {
	if exists, _ := s.fs.Exists(ctx, s.baseURL); !exists {
		if err := s.fs.Create(ctx, s.baseURL, file.DefaultDirOsMode, true); err != nil {
			return "", nil, fmt.Errorf("output: failed to create base location %s: %w", s.baseURL, err)
		}
	}
	URL := url.Join(s.baseURL, s.fileName(taskID))
	writer, err := s.fs.NewWriter(ctx, URL, file.DefaultFileOsMode)
	if err != nil {
		return "", nil, fmt.Errorf("output: failed to open sink %s: %w", URL, err)
	}
	return URL, writer, nil
}

// Discard removes a sink, tolerating a sink that never materialized.  Used
// on cancellation and failure so no partial artifact survives.
func (s *Store) Discard(ctx context.Context, URL string) error {
	if URL == "" {
		return nil
	}
	if exists, _ := s.fs.Exists(ctx, URL); !exists {
		return nil
	}
	return s.fs.Delete(ctx, URL)
}

// OpenReader reopens a completed sink for download.
func (s *Store) OpenReader(ctx context.Context, URL string) (io.ReadCloser, error) {
	return s.fs.OpenURL(ctx, URL)
}

// Exists reports whether the sink is still retrievable.
func (s *Store) Exists(ctx context.Context, URL string) (bool, error) {
	return s.fs.Exists(ctx, URL)
}

// fileName derives a unique artifact name from the wall clock and the task
// id, mirroring the uuid_range_<ts>_<suffix>.txt naming of the artifacts the
// download collaborator serves.
func (s *Store) fileName(taskID string) string {
	suffix := taskID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return path.Base(fmt.Sprintf("uuid_range_%d_%s.txt", clock.Now().Unix(), suffix))
}
