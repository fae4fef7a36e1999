// Package cli implements the corpus command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/quarry-labs/corpus/internal/adapters/driven/config/file"
	"github.com/quarry-labs/corpus/internal/adapters/driven/embedding/cache"
	"github.com/quarry-labs/corpus/internal/adapters/driven/embedding/openai"
	"github.com/quarry-labs/corpus/internal/adapters/driven/embedding/ratelimit"
	memstore "github.com/quarry-labs/corpus/internal/adapters/driven/storage/memory"
	"github.com/quarry-labs/corpus/internal/adapters/driven/storage/sqlite"
	memindex "github.com/quarry-labs/corpus/internal/adapters/driven/vectorindex/memory"
	"github.com/quarry-labs/corpus/internal/adapters/driven/vectorindex/pinecone"
	"github.com/quarry-labs/corpus/internal/chunker"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
	"github.com/quarry-labs/corpus/internal/core/ports/driving"
	"github.com/quarry-labs/corpus/internal/core/services"
	"github.com/quarry-labs/corpus/internal/extractors"
	"github.com/quarry-labs/corpus/internal/extractors/docx"
	"github.com/quarry-labs/corpus/internal/extractors/html"
	"github.com/quarry-labs/corpus/internal/extractors/markdown"
	"github.com/quarry-labs/corpus/internal/extractors/pdf"
	"github.com/quarry-labs/corpus/internal/extractors/plaintext"
	"github.com/quarry-labs/corpus/internal/logger"
)

const version = "0.1.0"

// Services injected into the commands. Wired lazily by ensureServices;
// tests set them directly.
var (
	ingestService    driving.Ingestor
	retrieverService driving.Retriever
	documentStore    driven.DocumentStore
)

var (
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Document retrieval pipeline for support knowledge bases",
	Long: `Corpus ingests documents, splits them into chunks, embeds the
chunks and indexes them for semantic retrieval. Queries are answered by
vector similarity with multi-factor ranking, degrading to text search
when the vector path is unavailable.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.corpus/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureServices wires the pipeline from configuration. It is a no-op
// when services are already present, which lets tests inject doubles.
func ensureServices() error {
	if ingestService != nil && retrieverService != nil {
		return nil
	}

	cfg, err := configfile.Load(configFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := buildDocumentStore(cfg)
	if err != nil {
		return err
	}

	index, err := buildVectorIndex(cfg)
	if err != nil {
		return err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	registry, err := buildExtractors()
	if err != nil {
		return err
	}

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunker.ChunkSize),
		chunker.WithOverlap(cfg.Chunker.Overlap),
	)

	documentStore = store
	ingestService = services.NewIngestor(
		registry, splitter, embedder, index, store,
		services.WithEmbedConcurrency(cfg.Ingest.EmbedConcurrency),
	)
	retrieverService = services.NewRetriever(store, index, embedder,
		services.WithRankingWeights(cfg.Ranking.Weights()))

	return nil
}

func buildDocumentStore(cfg configfile.Config) (driven.DocumentStore, error) {
	switch cfg.Storage.Backend {
	case configfile.StorageBackendMemory:
		return memstore.NewDocumentStore(), nil
	case configfile.StorageBackendSQLite:
		store, err := sqlite.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening document store: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func buildVectorIndex(cfg configfile.Config) (driven.VectorIndex, error) {
	switch cfg.Index.Backend {
	case configfile.IndexBackendMemory:
		return memindex.New(), nil
	case configfile.IndexBackendPinecone:
		index, err := pinecone.New(pinecone.Config{
			BaseURL:   cfg.Index.BaseURL,
			APIKey:    cfg.Index.APIKey,
			Namespace: cfg.Index.Namespace,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting vector index: %w", err)
		}
		return index, nil
	}
	return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
}

// buildEmbedder assembles the provider chain: rate limiting closest to
// the provider, caching outermost so cache hits never consume tokens.
func buildEmbedder(cfg configfile.Config) (driven.Embedder, error) {
	provider, err := openai.New(openai.Config{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		Timeout: cfg.Embedding.Timeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}

	var embedder driven.Embedder = provider
	if cfg.Embedding.RequestsPerSecond > 0 {
		embedder = ratelimit.New(embedder, cfg.Embedding.RequestsPerSecond)
	}
	if cfg.Embedding.CacheEnabled {
		embedder = cache.New(embedder)
	}
	return embedder, nil
}

func buildExtractors() (*extractors.Registry, error) {
	registry := extractors.NewRegistry()
	for _, e := range []driven.Extractor{
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
		pdf.New(),
	} {
		if err := registry.Register(e); err != nil {
			return nil, fmt.Errorf("registering extractor: %w", err)
		}
	}
	return registry, nil
}
