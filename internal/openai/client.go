// Package openai wraps the OpenAI API for embeddings and streamed chat
// completions.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the model the knowledge index is built with.
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
	// DefaultChatModel is the model used for answer generation.
	DefaultChatModel = openai.GPT4oMini
	// DefaultMaxTokens caps the length of a generated answer.
	DefaultMaxTokens = 512
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
)

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

// TokenStream yields generated text fragments until io.EOF. Close releases
// the underlying connection and may be called mid-stream to abort.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

// ChatStreamAPI defines the interface for streamed answer generation
type ChatStreamAPI interface {
	StreamChat(ctx context.Context, systemPrompt, userMessage string) (TokenStream, error)
}

// Client wraps the OpenAI API client
type Client struct {
	embeddings EmbeddingAPI
	chat       ChatStreamAPI
}

type OpenAIAdapter struct {
	client         *openai.Client
	embeddingModel openai.EmbeddingModel
	chatModel      string
	maxTokens      int
}

func NewOpenAIAdapter(apiKey, embeddingModel, chatModel string) *OpenAIAdapter {
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	return &OpenAIAdapter{
		client:         openai.NewClient(apiKey),
		embeddingModel: openai.EmbeddingModel(embeddingModel),
		chatModel:      chatModel,
		maxTokens:      DefaultMaxTokens,
	}
}

// CreateEmbeddings calls the OpenAI API to create an embedding for one text
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: a.embeddingModel,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

// StreamChat opens a streamed chat completion and returns a TokenStream
// over the generated fragments.
func (a *OpenAIAdapter) StreamChat(ctx context.Context, systemPrompt, userMessage string) (TokenStream, error) {
	stream, err := a.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:     a.chatModel,
		Stream:    true,
		MaxTokens: a.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return nil, err
	}
	return &completionStream{inner: stream}, nil
}

// completionStream adapts openai.ChatCompletionStream to TokenStream,
// skipping empty deltas so callers only see real fragments.
type completionStream struct {
	inner *openai.ChatCompletionStream
}

func (s *completionStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		token := resp.Choices[0].Delta.Content
		if token == "" {
			continue
		}
		return token, nil
	}
}

func (s *completionStream) Close() error {
	return s.inner.Close()
}

type Config struct {
	APIKey         string
	EmbeddingModel string
	ChatModel      string
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	adapter := NewOpenAIAdapter(cfg.APIKey, cfg.EmbeddingModel, cfg.ChatModel)
	return &Client{
		embeddings: adapter,
		chat:       adapter,
	}
}

// NewClientFromEnv creates a new OpenAI client using OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// GenerateEmbedding generates an embedding for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embedding, err := c.embeddings.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	return embedding, nil
}

// StreamCompletion opens a token stream for the given prompt pair. The
// returned stream ends with io.EOF on normal exhaustion.
func (c *Client) StreamCompletion(ctx context.Context, systemPrompt, userMessage string) (TokenStream, error) {
	if userMessage == "" {
		return nil, ErrEmptyText
	}
	return c.chat.StreamChat(ctx, systemPrompt, userMessage)
}

// Drain reads a token stream to exhaustion and returns the concatenated
// text. Used by callers that do not need incremental delivery.
func Drain(stream TokenStream) (string, error) {
	var out []byte
	for {
		token, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return string(out), nil
		}
		if err != nil {
			return string(out), err
		}
		out = append(out, token...)
	}
}
