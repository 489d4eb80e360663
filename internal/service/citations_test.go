package service

import (
	"testing"

	"github.com/asingh-dev/folio-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredChunk(docID, projectID string, score float64) ScoredChunk {
	return ScoredChunk{
		Chunk: domain.KnowledgeChunk{
			ChunkID:   docID + "#0",
			DocID:     docID,
			Title:     "Title " + docID,
			ProjectID: projectID,
		},
		Score: score,
	}
}

func TestBuildCitationsThresholdAndAlwaysTopN(t *testing.T) {
	// A and B are always included as the top two; C falls below the
	// threshold and is dropped despite ranking third; D is both below
	// threshold and outside the window.
	results := []ScoredChunk{
		scoredChunk("a", "proj-a", 0.52),
		scoredChunk("b", "", 0.41),
		scoredChunk("c", "proj-c", 0.28),
		scoredChunk("d", "", 0.15),
	}

	citations := BuildCitations(results, CitationConfig{AlwaysTopN: 2, ScoreThreshold: 0.30})
	require.Len(t, citations, 2)

	// A sorts first: it carries a project id.
	assert.Equal(t, "proj-a", citations[0].CardID)
	assert.Equal(t, 0.52, citations[0].Score)
	assert.Equal(t, "b", citations[1].CardID)
	assert.Equal(t, 0.41, citations[1].Score)
}

func TestBuildCitationsWeakTopResultsStillSurface(t *testing.T) {
	results := []ScoredChunk{
		scoredChunk("a", "", 0.05),
		scoredChunk("b", "", 0.02),
		scoredChunk("c", "", 0.01),
	}

	citations := BuildCitations(results, DefaultCitationConfig())
	require.Len(t, citations, 2)
	assert.Equal(t, "a", citations[0].CardID)
	assert.Equal(t, "b", citations[1].CardID)
}

func TestBuildCitationsDeduplicatesByCard(t *testing.T) {
	// Two chunks of the same project collapse into one citation carrying
	// the higher score.
	first := scoredChunk("doc1", "proj-x", 0.80)
	second := ScoredChunk{
		Chunk: domain.KnowledgeChunk{
			ChunkID:   "doc1#1",
			DocID:     "doc1",
			Title:     "Title doc1",
			ProjectID: "proj-x",
		},
		Score: 0.90,
	}

	citations := BuildCitations([]ScoredChunk{second, first}, DefaultCitationConfig())
	require.Len(t, citations, 1)
	assert.Equal(t, "proj-x", citations[0].CardID)
	assert.Equal(t, 0.90, citations[0].Score)
	assert.Equal(t, "doc1#1", citations[0].ChunkID)
}

func TestBuildCitationsProjectGroupSortsFirst(t *testing.T) {
	results := []ScoredChunk{
		scoredChunk("a", "", 0.90),
		scoredChunk("b", "proj-b", 0.60),
		scoredChunk("c", "proj-c", 0.85),
		scoredChunk("d", "", 0.70),
	}

	citations := BuildCitations(results, CitationConfig{AlwaysTopN: 2, ScoreThreshold: 0.30})
	require.Len(t, citations, 4)

	assert.Equal(t, "proj-c", citations[0].CardID)
	assert.Equal(t, "proj-b", citations[1].CardID)
	assert.Equal(t, "a", citations[2].CardID)
	assert.Equal(t, "d", citations[3].CardID)
}

func TestBuildCitationsEmptyResults(t *testing.T) {
	assert.Empty(t, BuildCitations(nil, DefaultCitationConfig()))
}

func TestBuildCitationsCardIDFallsBackToDocID(t *testing.T) {
	citations := BuildCitations([]ScoredChunk{scoredChunk("resume", "", 0.95)}, DefaultCitationConfig())
	require.Len(t, citations, 1)
	assert.Equal(t, "resume", citations[0].CardID)
	assert.Empty(t, citations[0].ProjectID)
}
