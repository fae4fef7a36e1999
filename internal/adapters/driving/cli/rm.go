package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

var rmCmd = &cobra.Command{
	Use:   "rm [doc-id]",
	Short: "Remove a document and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	id := args[0]
	if err := ingestService.RemoveDocument(cmd.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no document with id %s", id)
		}
		return err
	}

	cmd.Printf("Removed %s\n", id)
	return nil
}
