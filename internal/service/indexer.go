package service

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asingh-dev/folio-assistant/internal/domain"
	"github.com/asingh-dev/folio-assistant/internal/kb"
)

// IndexVersion identifies the artifact schema written by the builder.
const IndexVersion = "1"

// interChunkDelay spaces out successive embedding calls during a batch
// build to avoid bursting the external service. Not part of the retry
// policy.
const interChunkDelay = 100 * time.Millisecond

// Embedder generates one embedding per call, retries included.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Indexer runs the offline knowledge base build: parse, chunk, embed,
// accumulate. Documents are processed serially; a document that fails to
// parse is skipped with a diagnostic and the batch continues.
type Indexer struct {
	embedder       Embedder
	embeddingModel string
	chunkCfg       kb.ChunkConfig
	sleep          SleepFunc
	now            func() time.Time
}

// NewIndexer creates an Indexer for the given embedder and model identity.
func NewIndexer(embedder Embedder, embeddingModel string, chunkCfg kb.ChunkConfig) *Indexer {
	return &Indexer{
		embedder:       embedder,
		embeddingModel: embeddingModel,
		chunkCfg:       chunkCfg,
		sleep:          ContextSleep,
		now:            time.Now,
	}
}

// WithSleep replaces the inter-chunk delay mechanism. Tests use this to run
// without wall-clock waits.
func (ix *Indexer) WithSleep(sleep SleepFunc) *Indexer {
	ix.sleep = sleep
	return ix
}

// WithClock replaces the timestamp source for the built artifact.
func (ix *Indexer) WithClock(now func() time.Time) *Indexer {
	ix.now = now
	return ix
}

// Build walks dir for .md source documents and produces the knowledge
// index. An embedding failure is fatal to the build; a parse failure skips
// only that document.
func (ix *Indexer) Build(ctx context.Context, dir string) (*domain.KnowledgeIndex, error) {
	files, err := findSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	log.Printf("indexer: found %d source files in %s", len(files), dir)

	var chunks []domain.KnowledgeChunk
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		doc, err := kb.ParseDocument(string(raw))
		if err != nil {
			log.Printf("indexer: skipping %s: %v", path, err)
			continue
		}

		docChunks, err := ix.embedDocument(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("failed to embed %s: %w", path, err)
		}
		log.Printf("indexer: %s -> %d chunk(s)", doc.Meta.DocID, len(docChunks))
		chunks = append(chunks, docChunks...)
	}

	return &domain.KnowledgeIndex{
		Version:        IndexVersion,
		EmbeddingModel: ix.embeddingModel,
		CreatedAt:      ix.now().UTC(),
		Chunks:         chunks,
	}, nil
}

func (ix *Indexer) embedDocument(ctx context.Context, doc *kb.Document) ([]domain.KnowledgeChunk, error) {
	windows := kb.ChunkText(doc.Body, ix.chunkCfg)
	chunks := make([]domain.KnowledgeChunk, 0, len(windows))

	for i, window := range windows {
		text := kb.EmbeddingText(doc.Meta, window)
		embedding, err := ix.embedder.Embed(ctx, text)
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, domain.KnowledgeChunk{
			ChunkID:   domain.ChunkID(doc.Meta.DocID, i),
			DocID:     doc.Meta.DocID,
			Title:     doc.Meta.Title,
			Type:      doc.Meta.Type,
			ProjectID: doc.Meta.ProjectID,
			Tags:      doc.Meta.Tags,
			Text:      text,
			Embedding: embedding,
		})

		// Skip the delay after a document's final chunk.
		if i < len(windows)-1 {
			if err := ix.sleep(ctx, interChunkDelay); err != nil {
				return nil, err
			}
		}
	}

	return chunks, nil
}

func findSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return files, nil
}
