// Package file provides TOML file based configuration loading.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// Backend names accepted in the index and embedding sections.
const (
	IndexBackendMemory   = "memory"
	IndexBackendPinecone = "pinecone"

	StorageBackendMemory = "memory"
	StorageBackendSQLite = "sqlite"
)

// Config is the full application configuration. Zero values are
// replaced by defaults at load time, so a partial file is fine and a
// missing file yields a fully defaulted configuration.
type Config struct {
	Embedding EmbeddingConfig `toml:"embedding"`
	Index     IndexConfig     `toml:"index"`
	Storage   StorageConfig   `toml:"storage"`
	Chunker   ChunkerConfig   `toml:"chunker"`
	Ingest    IngestConfig    `toml:"ingest"`
	Ranking   RankingConfig   `toml:"ranking"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	// APIKey authenticates against the provider. Falls back to the
	// OPENAI_API_KEY environment variable when empty.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// CacheEnabled toggles the in-memory embedding cache.
	CacheEnabled bool `toml:"cache_enabled"`

	// RequestsPerSecond throttles provider calls. Zero disables
	// throttling.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// IndexConfig configures the vector index backend.
type IndexConfig struct {
	// Backend selects the index implementation: "memory" or "pinecone".
	Backend string `toml:"backend"`

	// BaseURL is the remote index endpoint (pinecone only).
	BaseURL string `toml:"base_url"`

	// APIKey authenticates against the remote index (pinecone only).
	APIKey string `toml:"api_key"`

	// Namespace scopes remote index operations.
	Namespace string `toml:"namespace"`
}

// StorageConfig configures the document store backend.
type StorageConfig struct {
	// Backend selects the store implementation: "memory" or "sqlite".
	Backend string `toml:"backend"`

	// DataDir is the directory holding the SQLite database.
	DataDir string `toml:"data_dir"`
}

// ChunkerConfig configures document splitting.
type ChunkerConfig struct {
	// ChunkSize is the target chunk size in characters.
	ChunkSize int `toml:"chunk_size"`

	// Overlap is the overlap window in characters.
	Overlap int `toml:"overlap"`
}

// IngestConfig configures the ingestion pipeline.
type IngestConfig struct {
	// EmbedConcurrency bounds in-flight embedding requests.
	EmbedConcurrency int `toml:"embed_concurrency"`
}

// RankingConfig tunes the retrieval scoring constants. The defaults
// preserve the compatibility values; unset fields are filled from them
// at load time.
type RankingConfig struct {
	// TitleWeight, ContentWeight and TagWeight form the weighted
	// relevance sum, clamped at 1.
	TitleWeight   float64 `toml:"title_weight"`
	ContentWeight float64 `toml:"content_weight"`
	TagWeight     float64 `toml:"tag_weight"`

	// Additive confidence boosts.
	ExactTitleBoost float64 `toml:"exact_title_boost"`
	RecencyBoost    float64 `toml:"recency_boost"`
	LengthBoost     float64 `toml:"length_boost"`

	// RecencyWindowDays is the update-time window for the recency boost.
	RecencyWindowDays int `toml:"recency_window_days"`

	// LengthThreshold is the content length for the length boost.
	LengthThreshold int `toml:"length_threshold"`
}

// Weights converts the ranking configuration into the domain type.
func (c RankingConfig) Weights() domain.RankingWeights {
	return domain.RankingWeights{
		Title:           c.TitleWeight,
		Content:         c.ContentWeight,
		Tag:             c.TagWeight,
		ExactTitleBoost: c.ExactTitleBoost,
		RecencyBoost:    c.RecencyBoost,
		LengthBoost:     c.LengthBoost,
		RecencyWindow:   time.Duration(c.RecencyWindowDays) * 24 * time.Hour,
		LengthThreshold: c.LengthThreshold,
	}
}

// Timeout returns the embedding request timeout as a duration.
func (c EmbeddingConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{
			Model:             "text-embedding-3-small",
			CacheEnabled:      true,
			RequestsPerSecond: 5,
			TimeoutSeconds:    60,
		},
		Index: IndexConfig{
			Backend: IndexBackendMemory,
		},
		Storage: StorageConfig{
			Backend: StorageBackendSQLite,
		},
		Chunker: ChunkerConfig{
			ChunkSize: 1000,
			Overlap:   200,
		},
		Ingest: IngestConfig{
			EmbedConcurrency: 4,
		},
		Ranking: defaultRanking(),
	}
}

// defaultRanking mirrors domain.DefaultRankingWeights.
func defaultRanking() RankingConfig {
	w := domain.DefaultRankingWeights()
	return RankingConfig{
		TitleWeight:       w.Title,
		ContentWeight:     w.Content,
		TagWeight:         w.Tag,
		ExactTitleBoost:   w.ExactTitleBoost,
		RecencyBoost:      w.RecencyBoost,
		LengthBoost:       w.LengthBoost,
		RecencyWindowDays: int(w.RecencyWindow / (24 * time.Hour)),
		LengthThreshold:   w.LengthThreshold,
	}
}

// DefaultPath returns the default config file location,
// ~/.corpus/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".corpus", "config.toml"), nil
}

// Load reads configuration from the given path. A missing file yields
// the defaults; a present file is merged over them. An empty path uses
// the default location.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the configuration to the given path, creating the parent
// directory as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	// Restricted permissions: the file may hold API keys.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyDefaults fills fields an explicit file left zero.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = def.Embedding.Model
	}
	if cfg.Embedding.TimeoutSeconds == 0 {
		cfg.Embedding.TimeoutSeconds = def.Embedding.TimeoutSeconds
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = def.Index.Backend
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = def.Storage.Backend
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = def.Chunker.ChunkSize
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = def.Chunker.Overlap
	}
	if cfg.Ingest.EmbedConcurrency == 0 {
		cfg.Ingest.EmbedConcurrency = def.Ingest.EmbedConcurrency
	}
	if cfg.Ranking.TitleWeight == 0 {
		cfg.Ranking.TitleWeight = def.Ranking.TitleWeight
	}
	if cfg.Ranking.ContentWeight == 0 {
		cfg.Ranking.ContentWeight = def.Ranking.ContentWeight
	}
	if cfg.Ranking.TagWeight == 0 {
		cfg.Ranking.TagWeight = def.Ranking.TagWeight
	}
	if cfg.Ranking.ExactTitleBoost == 0 {
		cfg.Ranking.ExactTitleBoost = def.Ranking.ExactTitleBoost
	}
	if cfg.Ranking.RecencyBoost == 0 {
		cfg.Ranking.RecencyBoost = def.Ranking.RecencyBoost
	}
	if cfg.Ranking.LengthBoost == 0 {
		cfg.Ranking.LengthBoost = def.Ranking.LengthBoost
	}
	if cfg.Ranking.RecencyWindowDays == 0 {
		cfg.Ranking.RecencyWindowDays = def.Ranking.RecencyWindowDays
	}
	if cfg.Ranking.LengthThreshold == 0 {
		cfg.Ranking.LengthThreshold = def.Ranking.LengthThreshold
	}
}

// applyEnv lets environment variables supply secrets kept out of the
// file.
func applyEnv(cfg *Config) {
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Index.APIKey == "" {
		cfg.Index.APIKey = os.Getenv("PINECONE_API_KEY")
	}
}
