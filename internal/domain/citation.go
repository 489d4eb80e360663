package domain

// Citation is a caller-facing reference to a source document or project,
// derived deterministically from retrieved chunks. CardID is the grouping
// key the client uses to highlight a card: the chunk's project when it has
// one, the document otherwise.
type Citation struct {
	CardID    string  `json:"cardId"`
	ChunkID   string  `json:"chunkId,omitempty"`
	DocID     string  `json:"docId,omitempty"`
	Title     string  `json:"title,omitempty"`
	ProjectID string  `json:"projectId,omitempty"`
	Score     float64 `json:"score"`
}

// CitationFromChunk derives a citation for a retrieved chunk. Scores are
// raw cosine similarities and are passed through unclamped.
func CitationFromChunk(c KnowledgeChunk, score float64) Citation {
	cardID := c.ProjectID
	if cardID == "" {
		cardID = c.DocID
	}
	return Citation{
		CardID:    cardID,
		ChunkID:   c.ChunkID,
		DocID:     c.DocID,
		Title:     c.Title,
		ProjectID: c.ProjectID,
		Score:     score,
	}
}
