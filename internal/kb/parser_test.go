package kb

import (
	"testing"

	"github.com/asingh-dev/folio-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `---
docId: proj-neuron
title: Neuron GenAI Platform
type: project
projectId: project-neuron
tags: rag, aws , , genai
---
Neuron is a multi-tenant GenAI platform.

It chunks, embeds, and indexes internal documents.`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(sampleDoc)
	require.NoError(t, err)

	assert.Equal(t, "proj-neuron", doc.Meta.DocID)
	assert.Equal(t, "Neuron GenAI Platform", doc.Meta.Title)
	assert.Equal(t, domain.DocumentTypeProject, doc.Meta.Type)
	assert.Equal(t, "project-neuron", doc.Meta.ProjectID)
	assert.Equal(t, []string{"rag", "aws", "genai"}, doc.Meta.Tags)
	assert.Contains(t, doc.Body, "Neuron is a multi-tenant GenAI platform.")
	assert.Contains(t, doc.Body, "indexes internal documents.")
}

func TestParseDocumentDefaultsTypeToOther(t *testing.T) {
	doc, err := ParseDocument("---\ndocId: d1\ntitle: Some Doc\n---\nbody text")
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentTypeOther, doc.Meta.Type)
	assert.Empty(t, doc.Meta.ProjectID)
	assert.Empty(t, doc.Meta.Tags)
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"no delimiters", "docId: d1\ntitle: T\nbody", domain.ErrMissingDelimiter},
		{"single delimiter", "---\ndocId: d1\ntitle: T\nbody", domain.ErrMissingDelimiter},
		{"missing docId", "---\ntitle: T\n---\nbody", domain.ErrMissingDocID},
		{"missing title", "---\ndocId: d1\n---\nbody", domain.ErrMissingTitle},
		{"invalid type", "---\ndocId: d1\ntitle: T\ntype: memo\n---\nbody", domain.ErrInvalidDocumentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument(tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseDocumentSkipsMalformedHeaderLines(t *testing.T) {
	doc, err := ParseDocument("---\ndocId: d1\nnot a field line\ntitle: T\n---\nbody")
	require.NoError(t, err)

	assert.Equal(t, "d1", doc.Meta.DocID)
	assert.Equal(t, "T", doc.Meta.Title)
}
