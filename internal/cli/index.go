package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/asingh-dev/folio-assistant/internal/config"
	"github.com/asingh-dev/folio-assistant/internal/domain"
	"github.com/asingh-dev/folio-assistant/internal/kb"
	"github.com/asingh-dev/folio-assistant/internal/openai"
	"github.com/asingh-dev/folio-assistant/internal/service"
	"github.com/asingh-dev/folio-assistant/internal/storage"
	"github.com/asingh-dev/folio-assistant/internal/store"
	"github.com/spf13/cobra"
)

// IndexCmd returns the index command
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the knowledge index artifact",
		Long:  "Chunk and embed the knowledge base documents and write the persisted index artifact",
		RunE:  runIndex,
	}

	cmd.Flags().String("kb-dir", "", "Knowledge base directory (overrides FOLIO_KB_DIR)")
	cmd.Flags().String("out", "", "Artifact output path (overrides FOLIO_INDEX_PATH)")
	cmd.Flags().Bool("upload", false, "Also upload the artifact to the configured S3 bucket")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasOpenAI() {
		return fmt.Errorf("FOLIO_OPENAI_API_KEY is required to build the index")
	}

	kbDir, _ := cmd.Flags().GetString("kb-dir")
	if kbDir == "" {
		kbDir = cfg.KBDir
	}
	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = cfg.IndexPath
	}

	client := openai.NewClientWithConfig(openai.Config{
		APIKey:         cfg.OpenAIAPIKey,
		EmbeddingModel: cfg.EmbeddingModel,
	})
	gateway := service.NewEmbeddingGateway(client)

	indexer := service.NewIndexer(gateway, cfg.EmbeddingModel, kb.ChunkConfig{
		ChunkWords:   cfg.ChunkWords,
		OverlapWords: cfg.OverlapWords,
	})

	index, err := indexer.Build(ctx, kbDir)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	if err := store.WriteFile(outPath, index); err != nil {
		return fmt.Errorf("failed to write index artifact: %w", err)
	}
	log.Printf("wrote %d chunks to %s (model: %s)", len(index.Chunks), outPath, index.EmbeddingModel)

	upload, _ := cmd.Flags().GetBool("upload")
	if upload {
		if !cfg.HasS3() {
			return fmt.Errorf("--upload requires FOLIO_S3_ENDPOINT, FOLIO_S3_ACCESS_KEY_ID and FOLIO_S3_SECRET_ACCESS_KEY")
		}
		if err := uploadArtifact(ctx, cfg, index); err != nil {
			return err
		}
		log.Printf("uploaded artifact to s3 bucket '%s' key '%s'", cfg.S3Bucket, cfg.S3IndexKey)
	}

	return nil
}

func uploadArtifact(ctx context.Context, cfg *config.Config, index *domain.KnowledgeIndex) error {
	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}

	if err := s3Client.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("failed to ensure S3 bucket: %w", err)
	}

	data, err := store.Encode(index)
	if err != nil {
		return err
	}
	if err := s3Client.PutObject(ctx, cfg.S3IndexKey, data, "application/json"); err != nil {
		return fmt.Errorf("failed to upload artifact: %w", err)
	}
	return nil
}
