// Package kb parses and chunks knowledge base source documents.
package kb

import (
	"strings"

	"github.com/asingh-dev/folio-assistant/internal/domain"
)

// Delimiter bounds the metadata header block of a source document. It must
// appear exactly twice: once before and once after the header fields.
const Delimiter = "---"

// Document is a parsed source document: metadata header plus free-text body.
type Document struct {
	Meta domain.DocumentMeta
	Body string
}

// ParseDocument splits raw document text into a metadata header and a body.
// The header is a block of "field: value" lines bounded by two Delimiter
// lines. Required fields are docId and title; type defaults to "other" and
// tags is a comma-separated list with empty entries dropped.
func ParseDocument(raw string) (*Document, error) {
	first := strings.Index(raw, Delimiter)
	if first == -1 {
		return nil, domain.ErrMissingDelimiter
	}
	second := strings.Index(raw[first+len(Delimiter):], Delimiter)
	if second == -1 {
		return nil, domain.ErrMissingDelimiter
	}
	second += first + len(Delimiter)

	header := strings.TrimSpace(raw[first+len(Delimiter) : second])
	body := strings.TrimSpace(raw[second+len(Delimiter):])

	meta := domain.DocumentMeta{}
	for _, line := range strings.Split(header, "\n") {
		colon := strings.Index(line, ":")
		if colon == -1 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])

		switch key {
		case "docId":
			meta.DocID = value
		case "title":
			meta.Title = value
		case "type":
			meta.Type = domain.DocumentType(value)
		case "projectId":
			meta.ProjectID = value
		case "tags":
			meta.Tags = splitTags(value)
		}
	}

	if meta.DocID == "" {
		return nil, domain.ErrMissingDocID
	}
	if meta.Title == "" {
		return nil, domain.ErrMissingTitle
	}
	if meta.Type == "" {
		meta.Type = domain.DocumentTypeOther
	}
	if !domain.IsValidDocumentType(meta.Type) {
		return nil, domain.ErrInvalidDocumentType
	}

	return &Document{Meta: meta, Body: body}, nil
}

func splitTags(value string) []string {
	var tags []string
	for _, t := range strings.Split(value, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
