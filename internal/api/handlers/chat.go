package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/asingh-dev/folio-assistant/internal/api"
	"github.com/asingh-dev/folio-assistant/internal/api/middleware"
	"github.com/asingh-dev/folio-assistant/internal/domain"
	"github.com/asingh-dev/folio-assistant/internal/stream"
	"github.com/asingh-dev/folio-assistant/internal/telemetry"
)

// ChatPipeline runs one query and streams its events.
type ChatPipeline interface {
	Run(ctx context.Context, query string) <-chan domain.ChatEvent
}

// ChatHandler serves the streamed chat endpoint.
type ChatHandler struct {
	pipeline ChatPipeline
}

// NewChatHandler creates a ChatHandler over a pipeline.
func NewChatHandler(pipeline ChatPipeline) *ChatHandler {
	return &ChatHandler{pipeline: pipeline}
}

// ChatRequest is the POST /chat body. UIState is opaque client state the
// server accepts but does not interpret.
type ChatRequest struct {
	Query   string          `json:"query"`
	UIState json.RawMessage `json:"ui_state,omitempty"`
}

// Chat handles POST /chat. Malformed requests are rejected with a JSON
// error before any pipeline stage runs; afterwards all outcomes, including
// failures, are delivered as chat events on the SSE stream.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		api.HandleError(w, domain.ErrEmptyQuery)
		return
	}

	sw, err := stream.NewWriter(w)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx := r.Context()
	for event := range h.pipeline.Run(ctx, query) {
		if ctx.Err() != nil {
			return
		}
		if event.Type == domain.EventError {
			telemetry.CaptureMessage(ctx, "chat pipeline failed: "+event.Message)
		}
		if err := sw.WriteEvent(event); err != nil {
			// Client went away; the pipeline notices via ctx.
			telemetry.CaptureError(ctx, err)
			log.Printf("chat stream write failed (request %s): %v", middleware.GetRequestID(ctx), err)
			return
		}
	}
}
