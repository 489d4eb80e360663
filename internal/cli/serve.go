// Package cli implements the foliod commands.
package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asingh-dev/folio-assistant/internal/api/handlers"
	"github.com/asingh-dev/folio-assistant/internal/config"
	"github.com/asingh-dev/folio-assistant/internal/openai"
	"github.com/asingh-dev/folio-assistant/internal/server"
	"github.com/asingh-dev/folio-assistant/internal/service"
	"github.com/asingh-dev/folio-assistant/internal/storage"
	"github.com/asingh-dev/folio-assistant/internal/store"
	"github.com/asingh-dev/folio-assistant/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat API server",
		Long:  "Start the portfolio assistant API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasOpenAI() {
		return fmt.Errorf("FOLIO_OPENAI_API_KEY is required to serve")
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetString("port")
	}

	source, err := artifactSource(ctx, cfg)
	if err != nil {
		return err
	}
	indexStore := store.NewIndexStore(source)

	client := openai.NewClientWithConfig(openai.Config{
		APIKey:         cfg.OpenAIAPIKey,
		EmbeddingModel: cfg.EmbeddingModel,
		ChatModel:      cfg.ChatModel,
	})
	gateway := service.NewEmbeddingGateway(client)

	pipeline := service.NewPipeline(gateway, indexStore, client, service.PipelineConfig{
		TopK: cfg.TopK,
		Citations: service.CitationConfig{
			AlwaysTopN:     cfg.AlwaysTopN,
			ScoreThreshold: cfg.ScoreThreshold,
		},
	})

	routerCfg := server.RouterConfig{
		ChatHandler: handlers.NewChatHandler(pipeline),
	}
	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// artifactSource picks where the serving process loads the index artifact
// from: an S3 bucket when configured, the local file path otherwise.
func artifactSource(ctx context.Context, cfg *config.Config) (store.ArtifactSource, error) {
	if !cfg.HasS3() {
		return store.FileSource{Path: cfg.IndexPath}, nil
	}

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	log.Printf("loading index artifact from s3 bucket '%s' key '%s'", cfg.S3Bucket, cfg.S3IndexKey)
	return store.S3Source{Client: s3Client, Key: cfg.S3IndexKey}, nil
}
