// Package stream implements the chat event wire protocol: one JSON-encoded
// ChatEvent per SSE data frame, terminated by a blank line.
package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/asingh-dev/folio-assistant/internal/domain"
)

const dataPrefix = "data: "

// Encode serializes one ChatEvent into a self-terminating SSE frame.
func Encode(event domain.ChatEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	frame := make([]byte, 0, len(dataPrefix)+len(payload)+2)
	frame = append(frame, dataPrefix...)
	frame = append(frame, payload...)
	frame = append(frame, '\n', '\n')
	return frame, nil
}

// DecodeLine parses a single frame line into a ChatEvent. The "data: "
// prefix is optional so that bare JSON lines decode too. Returns false for
// blank lines, comments and unparsable input.
func DecodeLine(line string) (domain.ChatEvent, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, ":") {
		return domain.ChatEvent{}, false
	}
	trimmed = strings.TrimPrefix(trimmed, strings.TrimSpace(dataPrefix))
	trimmed = strings.TrimSpace(trimmed)

	var event domain.ChatEvent
	if err := json.Unmarshal([]byte(trimmed), &event); err != nil {
		return domain.ChatEvent{}, false
	}
	if event.Type == "" {
		return domain.ChatEvent{}, false
	}
	return event, true
}

// Decoder incrementally splits a byte stream into frames. Bytes may arrive
// at arbitrary boundaries: an incomplete trailing line stays buffered until
// the rest of it arrives.
type Decoder struct {
	buf bytes.Buffer
}

// NewDecoder creates an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends raw bytes and returns every event completed by them, in
// order. Unparsable lines are skipped without aborting the stream.
func (d *Decoder) Feed(p []byte) []domain.ChatEvent {
	d.buf.Write(p)

	var events []domain.ChatEvent
	for {
		raw := d.buf.Bytes()
		nl := bytes.IndexByte(raw, '\n')
		if nl == -1 {
			break
		}
		line := string(raw[:nl])
		d.buf.Next(nl + 1)

		if event, ok := DecodeLine(line); ok {
			events = append(events, event)
		}
	}
	return events
}

// Flush parses whatever remains in the buffer as a final line. Call it once
// the underlying stream has ended.
func (d *Decoder) Flush() []domain.ChatEvent {
	if d.buf.Len() == 0 {
		return nil
	}
	line := d.buf.String()
	d.buf.Reset()

	if event, ok := DecodeLine(line); ok {
		return []domain.ChatEvent{event}
	}
	return nil
}

// DecodeAll reads r to exhaustion and returns the full ordered event
// sequence.
func DecodeAll(r io.Reader) ([]domain.ChatEvent, error) {
	dec := NewDecoder()
	var events []domain.ChatEvent

	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			events = append(events, dec.Feed(buf[:n])...)
		}
		if err == io.EOF {
			events = append(events, dec.Flush()...)
			return events, nil
		}
		if err != nil {
			return events, err
		}
	}
}
