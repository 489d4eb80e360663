package domain

import (
	"fmt"
	"time"
)

// DocumentType classifies a knowledge base document.
type DocumentType string

const (
	DocumentTypeResume  DocumentType = "resume"
	DocumentTypeProject DocumentType = "project"
	DocumentTypeStory   DocumentType = "story"
	DocumentTypeOther   DocumentType = "other"
)

// IsValidDocumentType checks if a DocumentType is one of the known values.
func IsValidDocumentType(t DocumentType) bool {
	switch t {
	case DocumentTypeResume, DocumentTypeProject, DocumentTypeStory, DocumentTypeOther:
		return true
	}
	return false
}

// DocumentMeta holds the parsed metadata header of a source document.
type DocumentMeta struct {
	DocID     string
	Title     string
	Type      DocumentType
	ProjectID string
	Tags      []string
}

// KnowledgeChunk is an overlapping word-window slice of a source document,
// the unit of embedding and retrieval.
type KnowledgeChunk struct {
	ChunkID   string       `json:"chunkId"`
	DocID     string       `json:"docId"`
	Title     string       `json:"title"`
	Type      DocumentType `json:"type"`
	ProjectID string       `json:"projectId,omitempty"`
	Tags      []string     `json:"tags"`
	Text      string       `json:"text"`
	Embedding []float32    `json:"embedding"`
}

// ChunkID builds the canonical chunk identifier for a document chunk.
func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s#%d", docID, index)
}

// KnowledgeIndex is the persisted collection of chunks and embeddings.
// It is immutable once built: replacing it requires rerunning the offline
// build and swapping the persisted artifact.
type KnowledgeIndex struct {
	Version        string           `json:"version"`
	EmbeddingModel string           `json:"embeddingModel"`
	CreatedAt      time.Time        `json:"createdAt"`
	Chunks         []KnowledgeChunk `json:"chunks"`
}

// ValidateIndex checks structural invariants of a loaded index: unique chunk
// IDs and a single embedding dimensionality across all chunks.
func ValidateIndex(idx *KnowledgeIndex) error {
	if idx == nil {
		return NewDomainError(ErrCodeValidation, "knowledge index cannot be nil")
	}
	if idx.Version == "" {
		return NewDomainError(ErrCodeValidation, "knowledge index version is required")
	}
	if idx.EmbeddingModel == "" {
		return NewDomainError(ErrCodeValidation, "knowledge index embedding model is required")
	}

	seen := make(map[string]struct{}, len(idx.Chunks))
	dims := -1
	for _, c := range idx.Chunks {
		if c.ChunkID == "" {
			return NewDomainError(ErrCodeValidation, "chunk is missing chunkId")
		}
		if _, dup := seen[c.ChunkID]; dup {
			return NewDomainError(ErrCodeValidation, fmt.Sprintf("duplicate chunkId %q", c.ChunkID))
		}
		seen[c.ChunkID] = struct{}{}

		if dims == -1 {
			dims = len(c.Embedding)
		} else if len(c.Embedding) != dims {
			return NewDomainError(ErrCodeValidation,
				fmt.Sprintf("chunk %q embedding has %d dimensions, index uses %d", c.ChunkID, len(c.Embedding), dims))
		}
	}

	return nil
}
