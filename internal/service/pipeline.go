package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/asingh-dev/folio-assistant/internal/domain"
	"github.com/asingh-dev/folio-assistant/internal/openai"
)

// IndexLoader supplies the cached knowledge index.
type IndexLoader interface {
	Load(ctx context.Context) (*domain.KnowledgeIndex, error)
}

// Generator opens a token stream from the text-generation service.
type Generator interface {
	StreamCompletion(ctx context.Context, systemPrompt, userMessage string) (openai.TokenStream, error)
}

// PipelineConfig tunes retrieval and citation selection.
type PipelineConfig struct {
	TopK      int
	Citations CitationConfig
}

// DefaultPipelineConfig provides the serving defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		TopK:      6,
		Citations: DefaultCitationConfig(),
	}
}

// Pipeline sequences one chat request through its stages: embed the query,
// retrieve against the cached index, generate a grounded answer, then
// surface citations and latency metrics. Events are pushed to a channel the
// transport drains; cancelling ctx stops the stream with no further events.
type Pipeline struct {
	embedder  Embedder
	index     IndexLoader
	generator Generator
	cfg       PipelineConfig
}

// NewPipeline creates a Pipeline over its three collaborators.
func NewPipeline(embedder Embedder, index IndexLoader, generator Generator, cfg PipelineConfig) *Pipeline {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultPipelineConfig().TopK
	}
	return &Pipeline{
		embedder:  embedder,
		index:     index,
		generator: generator,
		cfg:       cfg,
	}
}

// Run processes one query and returns the event channel. The channel is
// closed after the terminal event, or without one when ctx is cancelled:
// partially computed stages are discarded, not reported.
func (p *Pipeline) Run(ctx context.Context, query string) <-chan domain.ChatEvent {
	events := make(chan domain.ChatEvent)
	go func() {
		defer close(events)
		p.run(ctx, query, events)
	}()
	return events
}

func (p *Pipeline) run(ctx context.Context, query string, events chan<- domain.ChatEvent) {
	emit := func(event domain.ChatEvent) bool {
		if ctx.Err() != nil {
			return false
		}
		select {
		case events <- event:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error) {
		if ctx.Err() != nil {
			return
		}
		emit(domain.ErrorEvent(err.Error()))
	}

	// Stage: embedding.
	embedStart := time.Now()
	queryEmbedding, err := p.embedder.Embed(ctx, query)
	if err != nil {
		fail(err)
		return
	}
	embedMs := time.Since(embedStart).Milliseconds()
	if !emit(domain.StageEvent(domain.StageEmbedding, embedMs)) {
		return
	}

	// Stage: retrieving.
	retrieveStart := time.Now()
	index, err := p.index.Load(ctx)
	if err != nil {
		fail(err)
		return
	}
	results := Search(queryEmbedding, index.Chunks, p.cfg.TopK)
	retrieveMs := time.Since(retrieveStart).Milliseconds()

	if !emit(domain.RetrievalResultsEvent(RetrievalChunks(results))) {
		return
	}
	if !emit(domain.StageEvent(domain.StageRetrieving, retrieveMs)) {
		return
	}

	// Stage: generating.
	if !emit(domain.StageEvent(domain.StageGenerating, 0)) {
		return
	}
	generateStart := time.Now()
	stream, err := p.generator.StreamCompletion(ctx, BuildPrompt(results), query)
	if err != nil {
		fail(err)
		return
	}
	defer stream.Close()

	for {
		token, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fail(err)
			return
		}
		if !emit(domain.TokenEvent(token)) {
			return
		}
	}
	generateMs := time.Since(generateStart).Milliseconds()

	citations := BuildCitations(results, p.cfg.Citations)
	if !emit(domain.CitationsEvent(citations)) {
		return
	}

	metrics := domain.PipelineMetrics{
		EmbedMs:    embedMs,
		RetrieveMs: retrieveMs,
		GenerateMs: generateMs,
	}
	emit(domain.DoneEvent(citations, metrics))
}
