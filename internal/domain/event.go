package domain

// PipelineStage is one of the pipeline's active phases plus its terminal
// states.
type PipelineStage string

const (
	StageEmbedding  PipelineStage = "embedding"
	StageRetrieving PipelineStage = "retrieving"
	StageGenerating PipelineStage = "generating"
	StageComplete   PipelineStage = "complete"
	StageError      PipelineStage = "error"
)

// EventType discriminates the ChatEvent union.
type EventType string

const (
	EventStage            EventType = "stage"
	EventRetrievalResults EventType = "retrieval_results"
	EventToken            EventType = "token"
	EventCitations        EventType = "citations"
	EventDone             EventType = "done"
	EventError            EventType = "error"
)

// RetrievalChunk is the display-safe projection of a retrieved chunk: no
// embedding, text reduced to a snippet.
type RetrievalChunk struct {
	ChunkID   string  `json:"chunkId"`
	DocID     string  `json:"docId"`
	Title     string  `json:"title"`
	ProjectID string  `json:"projectId,omitempty"`
	Score     float64 `json:"score"`
	Snippet   string  `json:"snippet"`
}

// PipelineMetrics records per-stage latency, populated once per request.
type PipelineMetrics struct {
	EmbedMs    int64 `json:"embedMs"`
	RetrieveMs int64 `json:"retrieveMs"`
	GenerateMs int64 `json:"generateMs"`
}

// ChatEvent is one frame of the streamed chat response. Type selects the
// variant; only that variant's fields are populated.
type ChatEvent struct {
	Type      EventType        `json:"type"`
	Stage     PipelineStage    `json:"stage,omitempty"`
	Ms        int64            `json:"ms,omitempty"`
	Token     string           `json:"token,omitempty"`
	Chunks    []RetrievalChunk `json:"chunks,omitempty"`
	Citations []Citation       `json:"citations,omitempty"`
	Metrics   *PipelineMetrics `json:"metrics,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// StageEvent builds a stage transition event. ms is the elapsed time of the
// stage just completed; pass 0 for stage-entry announcements.
func StageEvent(stage PipelineStage, ms int64) ChatEvent {
	return ChatEvent{Type: EventStage, Stage: stage, Ms: ms}
}

// RetrievalResultsEvent builds the event carrying ranked retrieval chunks.
func RetrievalResultsEvent(chunks []RetrievalChunk) ChatEvent {
	return ChatEvent{Type: EventRetrievalResults, Chunks: chunks}
}

// TokenEvent builds a single generated-token event.
func TokenEvent(token string) ChatEvent {
	return ChatEvent{Type: EventToken, Token: token}
}

// CitationsEvent builds the event carrying the final citation list.
func CitationsEvent(citations []Citation) ChatEvent {
	return ChatEvent{Type: EventCitations, Citations: citations}
}

// DoneEvent builds the terminal success event.
func DoneEvent(citations []Citation, metrics PipelineMetrics) ChatEvent {
	return ChatEvent{Type: EventDone, Citations: citations, Metrics: &metrics}
}

// ErrorEvent builds the terminal failure event.
func ErrorEvent(message string) ChatEvent {
	return ChatEvent{Type: EventError, Message: message}
}
