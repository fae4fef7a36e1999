package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/quarry-labs/corpus/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Writes the default configuration to the config path so it can
be edited. An existing file is not overwritten.`,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := configfile.Load(configFlag)
	if err != nil {
		return err
	}

	cmd.Println("[embedding]")
	cmd.Printf("  model: %s\n", cfg.Embedding.Model)
	cmd.Printf("  api_key: %s\n", maskKey(cfg.Embedding.APIKey))
	cmd.Printf("  cache_enabled: %t\n", cfg.Embedding.CacheEnabled)
	cmd.Printf("  requests_per_second: %g\n", cfg.Embedding.RequestsPerSecond)
	cmd.Println()
	cmd.Println("[index]")
	cmd.Printf("  backend: %s\n", cfg.Index.Backend)
	if cfg.Index.Backend == configfile.IndexBackendPinecone {
		cmd.Printf("  base_url: %s\n", cfg.Index.BaseURL)
		cmd.Printf("  api_key: %s\n", maskKey(cfg.Index.APIKey))
		cmd.Printf("  namespace: %s\n", cfg.Index.Namespace)
	}
	cmd.Println()
	cmd.Println("[storage]")
	cmd.Printf("  backend: %s\n", cfg.Storage.Backend)
	if cfg.Storage.DataDir != "" {
		cmd.Printf("  data_dir: %s\n", cfg.Storage.DataDir)
	}
	cmd.Println()
	cmd.Println("[chunker]")
	cmd.Printf("  chunk_size: %d\n", cfg.Chunker.ChunkSize)
	cmd.Printf("  overlap: %d\n", cfg.Chunker.Overlap)
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configFlag
	if path == "" {
		var err error
		path, err = configfile.DefaultPath()
		if err != nil {
			return err
		}
	}

	if fileExists(path) {
		return fmt.Errorf("config file %s already exists", path)
	}

	if err := configfile.Save(path, configfile.Default()); err != nil {
		return err
	}
	cmd.Printf("Wrote default config to %s\n", path)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
