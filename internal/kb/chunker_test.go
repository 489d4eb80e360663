package kb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/asingh-dev/folio-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%d", i)
	}
	return out
}

func TestChunkTextWindowBoundaries(t *testing.T) {
	// 760 words with a 350/60 window produce chunks [0,350), [290,640), [580,760).
	all := words(760)
	chunks := ChunkText(strings.Join(all, " "), ChunkConfig{ChunkWords: 350, OverlapWords: 60})
	require.Len(t, chunks, 3)

	first := strings.Fields(chunks[0])
	second := strings.Fields(chunks[1])
	third := strings.Fields(chunks[2])

	assert.Len(t, first, 350)
	assert.Len(t, second, 350)
	assert.Len(t, third, 180)

	assert.Equal(t, "w0", first[0])
	assert.Equal(t, "w290", second[0])
	assert.Equal(t, "w580", third[0])
	assert.Equal(t, "w759", third[len(third)-1])

	// Consecutive chunks share exactly the overlap window.
	assert.Equal(t, first[290:], second[:60])
	assert.Equal(t, second[290:], third[:60])
}

func TestChunkTextShortDocumentSingleChunk(t *testing.T) {
	chunks := ChunkText("alpha beta gamma", DefaultChunkConfig())
	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta gamma", chunks[0])
}

func TestChunkTextCollapsesWhitespace(t *testing.T) {
	chunks := ChunkText("alpha\tbeta\n\n  gamma ", DefaultChunkConfig())
	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta gamma", chunks[0])
}

func TestChunkTextEmptyBody(t *testing.T) {
	assert.Empty(t, ChunkText("", DefaultChunkConfig()))
	assert.Empty(t, ChunkText("   \n\t", DefaultChunkConfig()))
}

func TestChunkTextPreservesEnds(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"exactly one window", 350},
		{"one word beyond", 351},
		{"several windows", 1201},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := words(tt.n)
			chunks := ChunkText(strings.Join(all, " "), ChunkConfig{ChunkWords: 350, OverlapWords: 60})
			require.NotEmpty(t, chunks)

			first := strings.Fields(chunks[0])
			last := strings.Fields(chunks[len(chunks)-1])
			assert.Equal(t, all[0], first[0])
			assert.Equal(t, all[len(all)-1], last[len(last)-1])

			for i, c := range chunks[:len(chunks)-1] {
				assert.Len(t, strings.Fields(c), 350, "chunk %d should be full-size", i)
			}
		})
	}
}

func TestEmbeddingText(t *testing.T) {
	meta := domain.DocumentMeta{
		Title: "Neuron GenAI Platform",
		Tags:  []string{"rag", "aws"},
	}
	text := EmbeddingText(meta, "chunk body")
	assert.Equal(t, "Neuron GenAI Platform\nTags: rag, aws\n\nchunk body", text)
}

func TestEmbeddingTextWithoutTags(t *testing.T) {
	meta := domain.DocumentMeta{Title: "Resume"}
	assert.Equal(t, "Resume\n\nchunk body", EmbeddingText(meta, "chunk body"))
}
