// Package testutil provides helpers for asserting on streamed chat
// responses in tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/asingh-dev/folio-assistant/internal/domain"
	"github.com/asingh-dev/folio-assistant/internal/stream"
)

// ParseChatEvents decodes a full SSE response body into its ordered chat
// event sequence.
//
// Example:
//
//	events := testutil.ParseChatEvents(t, rec.Body.String())
//	require.Equal(t, domain.EventDone, events[len(events)-1].Type)
func ParseChatEvents(t *testing.T, body string) []domain.ChatEvent {
	t.Helper()

	events, err := stream.DecodeAll(strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to decode chat event stream: %v", err)
	}
	return events
}

// FindEvent finds the first event of a given type.
// Returns nil if not found.
func FindEvent(events []domain.ChatEvent, eventType domain.EventType) *domain.ChatEvent {
	for i := range events {
		if events[i].Type == eventType {
			return &events[i]
		}
	}
	return nil
}

// FindAllEvents finds all events of a given type.
func FindAllEvents(events []domain.ChatEvent, eventType domain.EventType) []domain.ChatEvent {
	var found []domain.ChatEvent
	for _, e := range events {
		if e.Type == eventType {
			found = append(found, e)
		}
	}
	return found
}

// EventTypes projects the sequence to its type discriminators, which keeps
// ordering assertions readable.
func EventTypes(events []domain.ChatEvent) []domain.EventType {
	types := make([]domain.EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}
