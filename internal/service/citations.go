package service

import (
	"sort"

	"github.com/asingh-dev/folio-assistant/internal/domain"
)

// CitationConfig tunes how citations are selected from ranked results.
type CitationConfig struct {
	AlwaysTopN     int
	ScoreThreshold float64
}

// DefaultCitationConfig provides the selection tuning used in production.
func DefaultCitationConfig() CitationConfig {
	return CitationConfig{
		AlwaysTopN:     2,
		ScoreThreshold: 0.30,
	}
}

// BuildCitations derives the deduplicated, ordered citation list from
// ranked retrieval results. It never consults generated text, so the same
// retrieval always yields the same citations.
//
// The top AlwaysTopN results are always included; lower-ranked results only
// when their score meets ScoreThreshold. Chunks sharing a card keep the
// higher-scoring citation. Project-backed citations sort before plain
// document citations, each group by descending score.
func BuildCitations(results []ScoredChunk, cfg CitationConfig) []domain.Citation {
	byCard := make(map[string]domain.Citation)
	order := make([]string, 0, len(results))

	for rank, r := range results {
		if rank >= cfg.AlwaysTopN && r.Score < cfg.ScoreThreshold {
			continue
		}

		citation := domain.CitationFromChunk(r.Chunk, r.Score)
		existing, seen := byCard[citation.CardID]
		if !seen {
			byCard[citation.CardID] = citation
			order = append(order, citation.CardID)
			continue
		}
		if citation.Score > existing.Score {
			byCard[citation.CardID] = citation
		}
	}

	citations := make([]domain.Citation, 0, len(order))
	for _, cardID := range order {
		citations = append(citations, byCard[cardID])
	}

	sort.SliceStable(citations, func(i, j int) bool {
		iProject := citations[i].ProjectID != ""
		jProject := citations[j].ProjectID != ""
		if iProject != jProject {
			return iProject
		}
		return citations[i].Score > citations[j].Score
	})

	return citations
}
