package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
	"github.com/quarry-labs/corpus/internal/core/ports/driving"
	"github.com/quarry-labs/corpus/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest changed files",
	Long: `Watches a directory tree for file changes and keeps the corpus
in sync: created and modified files of a supported type are ingested,
deleted files are removed. Rapid write bursts are coalesced, so a file
is only ingested once its writes settle.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "settle time before ingesting a changed file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if ingestService == nil || documentStore == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch target: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target %s is not a directory", dir)
	}

	w, err := newWatcher(ingestService, documentStore, watchDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.AddTree(dir); err != nil {
		return err
	}

	cmd.Printf("Watching %s (debounce %s). Press Ctrl-C to stop.\n", dir, watchDebounce)
	return w.Run(cmd.Context())
}

// watcher keeps a directory tree synchronised with the corpus. Events
// are debounced per path so editors that write in bursts trigger a
// single ingestion.
type watcher struct {
	fs       *fsnotify.Watcher
	ingestor driving.Ingestor
	docs     driven.DocumentStore
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newWatcher(ingestor driving.Ingestor, docs driven.DocumentStore, debounce time.Duration) (*watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &watcher{
		fs:       fs,
		ingestor: ingestor,
		docs:     docs,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// AddTree watches dir and all its subdirectories.
func (w *watcher) AddTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		return nil
	})
}

func (w *watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.fs.Close()
}

// Run processes events until the context is cancelled.
func (w *watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func (w *watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create):
		// New subdirectories need their own watch.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fs.Add(event.Name); err != nil {
				logger.Warn("Cannot watch %s: %v", event.Name, err)
			}
			return
		}
		w.scheduleIngest(ctx, event.Name)
	case event.Has(fsnotify.Write):
		w.scheduleIngest(ctx, event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancelPending(event.Name)
		w.removeByPath(ctx, event.Name)
	}
}

// scheduleIngest (re)arms the debounce timer for a path. Only files of
// a supported type are considered.
func (w *watcher) scheduleIngest(ctx context.Context, path string) {
	if typeFromPath(path) == "" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.ingestPath(ctx, path)
	})
}

func (w *watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *watcher) ingestPath(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	doc, err := w.ingestor.IngestDocument(ctx, domain.RawDocument{
		Type:      typeFromPath(path),
		Content:   content,
		SourceRef: abs,
	})
	if err != nil {
		logger.Warn("Ingest %s failed: %v", path, err)
		return
	}
	logger.Info("Ingested %s -> %s (v%d)", path, doc.ID, doc.Version)
}

// removeByPath deletes the document whose source reference matches the
// removed file, if one exists.
func (w *watcher) removeByPath(ctx context.Context, path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	docs, err := w.docs.ListDocuments(ctx)
	if err != nil {
		logger.Warn("Cannot list documents: %v", err)
		return
	}

	for i := range docs {
		if docs[i].SourceRef != abs {
			continue
		}
		if err := w.ingestor.RemoveDocument(ctx, docs[i].ID); err != nil {
			logger.Warn("Remove %s failed: %v", docs[i].ID, err)
			return
		}
		logger.Info("Removed %s (%s)", docs[i].ID, path)
		return
	}
}
