package service

import (
	"context"
	"log"

	"github.com/asingh-dev/folio-assistant/internal/domain"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingGateway wraps an EmbeddingClient with bounded retry. It is used
// per chunk during the offline build and per query while serving.
type EmbeddingGateway struct {
	client EmbeddingClient
	policy RetryPolicy
	sleep  SleepFunc
}

// NewEmbeddingGateway creates a gateway with the default retry policy.
func NewEmbeddingGateway(client EmbeddingClient) *EmbeddingGateway {
	return NewEmbeddingGatewayWithPolicy(client, DefaultRetryPolicy(), ContextSleep)
}

// NewEmbeddingGatewayWithPolicy creates a gateway with an explicit policy
// and sleep function.
func NewEmbeddingGatewayWithPolicy(client EmbeddingClient, policy RetryPolicy, sleep SleepFunc) *EmbeddingGateway {
	return &EmbeddingGateway{
		client: client,
		policy: policy,
		sleep:  sleep,
	}
}

// Embed generates an embedding for text, retrying transient failures per
// the gateway's policy. After the final attempt the underlying service
// error is surfaced to the caller.
func (g *EmbeddingGateway) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32

	err := Retry(ctx, g.policy, g.sleep,
		func() error {
			var err error
			embedding, err = g.client.GenerateEmbedding(ctx, text)
			return err
		},
		func(attempt int, err error) {
			log.Printf("embedding attempt %d failed, retrying: %v", attempt, err)
		},
	)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeServiceError, "embedding service call failed", err)
	}

	return embedding, nil
}
