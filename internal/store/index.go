// Package store loads and caches the persisted knowledge index artifact.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/asingh-dev/folio-assistant/internal/domain"
	"github.com/asingh-dev/folio-assistant/internal/storage"
)

// ArtifactSource fetches the raw persisted index artifact. Fetch returns
// domain.ErrIndexNotBuilt (possibly wrapped) when the artifact is absent.
type ArtifactSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads the artifact from local disk.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrIndexNotBuilt
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index artifact %s: %w", s.Path, err)
	}
	return data, nil
}

// S3Source reads the artifact from an S3-compatible bucket.
type S3Source struct {
	Client *storage.S3Client
	Key    string
}

func (s S3Source) Fetch(ctx context.Context) ([]byte, error) {
	data, err := s.Client.GetObject(ctx, s.Key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, domain.ErrIndexNotBuilt
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch index artifact from s3: %w", err)
	}
	return data, nil
}

// IndexStore memoizes the knowledge index for the life of the serving
// process. The first successful Load caches the decoded index; later calls
// share the same instance, which is read-only and therefore safe for
// unsynchronized concurrent reads. There is no runtime invalidation:
// replacing the index requires rebuilding the artifact and restarting.
type IndexStore struct {
	source ArtifactSource

	mu     sync.Mutex
	cached *domain.KnowledgeIndex
}

// NewIndexStore creates a store over the given artifact source.
func NewIndexStore(source ArtifactSource) *IndexStore {
	return &IndexStore{source: source}
}

// Load returns the cached index, fetching and decoding the artifact on
// first use. Failed loads are not cached, so a transient fetch error does
// not poison later requests.
func (s *IndexStore) Load(ctx context.Context) (*domain.KnowledgeIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	data, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	var index domain.KnowledgeIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "knowledge index artifact is corrupt", err)
	}
	if err := domain.ValidateIndex(&index); err != nil {
		return nil, err
	}

	s.cached = &index
	return s.cached, nil
}

// WriteFile persists a built index atomically: the artifact is written to a
// temp file in the target directory and renamed into place, so a serving
// process never observes a partial artifact.
func WriteFile(path string, index *domain.KnowledgeIndex) error {
	data, err := Encode(index)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".kb_index-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}

// Encode serializes an index the same way WriteFile does, for callers that
// upload the artifact instead of writing it to disk.
func Encode(index *domain.KnowledgeIndex) ([]byte, error) {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode index: %w", err)
	}
	return data, nil
}
