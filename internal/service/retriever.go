package service

import (
	"math"
	"sort"
	"strings"

	"github.com/asingh-dev/folio-assistant/internal/domain"
)

const snippetMaxChars = 220

// ScoredChunk pairs a knowledge chunk with its similarity to the query.
type ScoredChunk struct {
	Chunk domain.KnowledgeChunk
	Score float64
}

// CosineSimilarity returns dot(a,b) / (|a|·|b|), or 0 when either vector
// has zero magnitude or the dimensions disagree.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Search ranks chunks against the query embedding and returns the top k by
// descending cosine similarity. Ties keep the original chunk order. Fewer
// than k results are returned when the index is smaller than k; an empty
// index yields an empty result, never an error.
func Search(queryEmbedding []float32, chunks []domain.KnowledgeChunk, k int) []ScoredChunk {
	if k <= 0 || len(chunks) == 0 {
		return []ScoredChunk{}
	}

	scored := make([]ScoredChunk, len(chunks))
	for i, c := range chunks {
		scored[i] = ScoredChunk{
			Chunk: c,
			Score: CosineSimilarity(queryEmbedding, c.Embedding),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// RetrievalChunks projects ranked results into their display-safe form.
func RetrievalChunks(results []ScoredChunk) []domain.RetrievalChunk {
	out := make([]domain.RetrievalChunk, len(results))
	for i, r := range results {
		out[i] = domain.RetrievalChunk{
			ChunkID:   r.Chunk.ChunkID,
			DocID:     r.Chunk.DocID,
			Title:     r.Chunk.Title,
			ProjectID: r.Chunk.ProjectID,
			Score:     r.Score,
			Snippet:   makeSnippet(r.Chunk.Text),
		}
	}
	return out
}

func makeSnippet(content string) string {
	if content == "" {
		return ""
	}
	clean := strings.Join(strings.Fields(content), " ")
	if len(clean) <= snippetMaxChars {
		return clean
	}
	return clean[:snippetMaxChars-3] + "..."
}
