package stream

import (
	"fmt"
	"io"
	"net/http"

	"github.com/asingh-dev/folio-assistant/internal/domain"
)

// Writer delivers encoded chat events over an http.ResponseWriter,
// flushing after every frame so the client sees events as they happen.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter prepares an SSE response and returns a Writer over it.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flusher interface")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	return &Writer{w: w, flusher: flusher}, nil
}

// WriteEvent encodes one event as a frame and flushes it.
func (w *Writer) WriteEvent(event domain.ChatEvent) error {
	frame, err := Encode(event)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	w.flusher.Flush()
	return nil
}
