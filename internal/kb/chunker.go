package kb

import (
	"fmt"
	"strings"

	"github.com/asingh-dev/folio-assistant/internal/domain"
)

// ChunkConfig controls the word-window chunker.
type ChunkConfig struct {
	ChunkWords   int
	OverlapWords int
}

// DefaultChunkConfig provides the tuning the knowledge base was built with.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkWords:   350,
		OverlapWords: 60,
	}
}

// ChunkText splits body text into overlapping fixed-size word windows.
// Every chunk except the last has exactly cfg.ChunkWords words, consecutive
// chunks share cfg.OverlapWords words, and a body shorter than one window
// yields a single chunk. Words are rejoined with single spaces.
func ChunkText(text string, cfg ChunkConfig) []string {
	if cfg.ChunkWords <= 0 {
		cfg = DefaultChunkConfig()
	}
	if cfg.OverlapWords >= cfg.ChunkWords {
		cfg.OverlapWords = cfg.ChunkWords - 1
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, 1+len(words)/cfg.ChunkWords)
	start := 0
	for {
		end := start + cfg.ChunkWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end >= len(words) {
			break
		}
		start = end - cfg.OverlapWords
	}

	return chunks
}

// EmbeddingText builds the text submitted to the embedding service for one
// chunk. The title and tag line are prepended so short chunks keep their
// topical signal even when the body text alone is ambiguous.
func EmbeddingText(meta domain.DocumentMeta, chunk string) string {
	tagLine := ""
	if len(meta.Tags) > 0 {
		tagLine = fmt.Sprintf("Tags: %s\n", strings.Join(meta.Tags, ", "))
	}
	return fmt.Sprintf("%s\n%s\n%s", meta.Title, tagLine, chunk)
}
