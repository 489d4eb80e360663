package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	ChatModel      string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`

	// Offline build input and persisted index artifact location.
	KBDir     string `envconfig:"KB_DIR" default:"kb"`
	IndexPath string `envconfig:"INDEX_PATH" default:"public/kb_index.json"`

	// Optional S3-compatible source for the index artifact. When set, the
	// serving process loads the artifact from the bucket instead of disk.
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"folio-artifacts"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3IndexKey  string `envconfig:"S3_INDEX_KEY" default:"kb_index.json"`

	// Retrieval tuning. Defaults match the values the index was built and
	// evaluated with.
	ChunkWords     int     `envconfig:"CHUNK_WORDS" default:"350"`
	OverlapWords   int     `envconfig:"OVERLAP_WORDS" default:"60"`
	TopK           int     `envconfig:"TOP_K" default:"6"`
	AlwaysTopN     int     `envconfig:"ALWAYS_TOP_N" default:"2"`
	ScoreThreshold float64 `envconfig:"SCORE_THRESHOLD" default:"0.30"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("FOLIO", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
