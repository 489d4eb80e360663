package service

import (
	"strings"
	"testing"

	"github.com/asingh-dev/folio-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	results := []ScoredChunk{
		{
			Chunk: domain.KnowledgeChunk{
				ChunkID:   "proj-neuron#0",
				Title:     "Neuron",
				Type:      domain.DocumentTypeProject,
				ProjectID: "project-neuron",
				Text:      "realtime inference platform",
			},
			Score: 0.82,
		},
		{
			Chunk: domain.KnowledgeChunk{
				ChunkID: "resume#1",
				Title:   "Resume",
				Type:    domain.DocumentTypeResume,
				Text:    "five years of backend work",
			},
			Score: 0.61,
		},
	}

	prompt := BuildPrompt(results)

	assert.Contains(t, prompt, "[proj-neuron#0] (project) Neuron (project: project-neuron):\nrealtime inference platform")
	assert.Contains(t, prompt, "[resume#1] (resume) Resume:\nfive years of backend work")
	assert.Contains(t, prompt, "=== CONTEXT ===")
	assert.Contains(t, prompt, "=== END CONTEXT ===")

	// Passages are separated by the delimiter line, in rank order.
	first := strings.Index(prompt, "[proj-neuron#0]")
	second := strings.Index(prompt, "[resume#1]")
	assert.Less(t, first, second)
	assert.Contains(t, prompt, "\n---\n")
}

func TestBuildPromptNoResults(t *testing.T) {
	prompt := BuildPrompt(nil)
	assert.Contains(t, prompt, "(no relevant context found)")
	assert.NotContains(t, prompt, "\n---\n")
}

func TestBuildPromptDeterministic(t *testing.T) {
	results := []ScoredChunk{
		{Chunk: domain.KnowledgeChunk{ChunkID: "a#0", Title: "A", Type: domain.DocumentTypeOther, Text: "alpha"}, Score: 0.5},
	}
	assert.Equal(t, BuildPrompt(results), BuildPrompt(results))
}
