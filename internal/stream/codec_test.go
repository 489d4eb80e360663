package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asingh-dev/folio-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvents() []domain.ChatEvent {
	return []domain.ChatEvent{
		domain.StageEvent(domain.StageEmbedding, 42),
		domain.RetrievalResultsEvent([]domain.RetrievalChunk{
			{ChunkID: "resume#0", DocID: "resume", Title: "Resume", Score: 0.81, Snippet: "backend work"},
			{ChunkID: "proj-neuron#0", DocID: "proj-neuron", Title: "Neuron", ProjectID: "project-neuron", Score: 0.75, Snippet: "inference platform"},
		}),
		domain.StageEvent(domain.StageRetrieving, 3),
		domain.StageEvent(domain.StageGenerating, 0),
		domain.TokenEvent("He builds "),
		domain.TokenEvent("systems."),
		domain.CitationsEvent([]domain.Citation{
			{CardID: "project-neuron", ChunkID: "proj-neuron#0", DocID: "proj-neuron", Title: "Neuron", ProjectID: "project-neuron", Score: 0.75},
		}),
		domain.DoneEvent(
			[]domain.Citation{
				{CardID: "project-neuron", ChunkID: "proj-neuron#0", DocID: "proj-neuron", Title: "Neuron", ProjectID: "project-neuron", Score: 0.75},
			},
			domain.PipelineMetrics{EmbedMs: 42, RetrieveMs: 3, GenerateMs: 900},
		),
	}
}

func encodeAll(t *testing.T, events []domain.ChatEvent) []byte {
	t.Helper()
	var raw []byte
	for _, event := range events {
		frame, err := Encode(event)
		require.NoError(t, err)
		raw = append(raw, frame...)
	}
	return raw
}

func TestEncodeFrameShape(t *testing.T) {
	frame, err := Encode(domain.TokenEvent("hi"))
	require.NoError(t, err)

	s := string(frame)
	assert.True(t, strings.HasPrefix(s, "data: {"))
	assert.True(t, strings.HasSuffix(s, "\n\n"))
	assert.Contains(t, s, `"type":"token"`)
	assert.Contains(t, s, `"token":"hi"`)
}

func TestDecoderRoundTrip(t *testing.T) {
	events := sampleEvents()
	raw := encodeAll(t, events)

	dec := NewDecoder()
	decoded := dec.Feed(raw)
	decoded = append(decoded, dec.Flush()...)

	assert.Equal(t, events, decoded)
}

func TestDecoderByteByByte(t *testing.T) {
	events := sampleEvents()
	raw := encodeAll(t, events)

	dec := NewDecoder()
	var decoded []domain.ChatEvent
	for i := range raw {
		decoded = append(decoded, dec.Feed(raw[i:i+1])...)
	}
	decoded = append(decoded, dec.Flush()...)

	assert.Equal(t, events, decoded)
}

func TestDecoderSkipsGarbage(t *testing.T) {
	dec := NewDecoder()

	var decoded []domain.ChatEvent
	decoded = append(decoded, dec.Feed([]byte(": keep-alive comment\n"))...)
	decoded = append(decoded, dec.Feed([]byte("not json at all\n"))...)
	decoded = append(decoded, dec.Feed([]byte("\n"))...)
	decoded = append(decoded, dec.Feed([]byte(`data: {"unknown":"shape"}`+"\n"))...)

	frame, err := Encode(domain.TokenEvent("ok"))
	require.NoError(t, err)
	decoded = append(decoded, dec.Feed(frame)...)

	require.Len(t, decoded, 1)
	assert.Equal(t, "ok", decoded[0].Token)
}

func TestDecodeLineBareJSON(t *testing.T) {
	event, ok := DecodeLine(`{"type":"stage","stage":"embedding","ms":7}`)
	require.True(t, ok)
	assert.Equal(t, domain.EventStage, event.Type)
	assert.Equal(t, domain.StageEmbedding, event.Stage)
	assert.Equal(t, int64(7), event.Ms)
}

func TestDecodeAllReader(t *testing.T) {
	events := sampleEvents()
	raw := encodeAll(t, events)

	decoded, err := DecodeAll(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, events, decoded)
}

func TestDecoderFlushPartialFinalLine(t *testing.T) {
	dec := NewDecoder()
	// A final frame whose trailing newline never arrived.
	decoded := dec.Feed([]byte(`data: {"type":"error","message":"upstream closed"}`))
	assert.Empty(t, decoded)

	flushed := dec.Flush()
	require.Len(t, flushed, 1)
	assert.Equal(t, domain.EventError, flushed[0].Type)
	assert.Equal(t, "upstream closed", flushed[0].Message)
}

func TestWriterSetsSSEHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteEvent(domain.TokenEvent("hi")))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache, no-transform", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))
	assert.True(t, rec.Flushed)

	decoded, err := DecodeAll(rec.Body)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "hi", decoded[0].Token)
}

func TestWriterRequiresFlusher(t *testing.T) {
	_, err := NewWriter(nonFlushingWriter{httptest.NewRecorder()})
	assert.Error(t, err)
}

// nonFlushingWriter wraps a recorder without promoting its Flush method.
type nonFlushingWriter struct {
	rec *httptest.ResponseRecorder
}

func (w nonFlushingWriter) Header() http.Header         { return w.rec.Header() }
func (w nonFlushingWriter) Write(p []byte) (int, error) { return w.rec.Write(p) }
func (w nonFlushingWriter) WriteHeader(code int)        { w.rec.WriteHeader(code) }
