package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func sampleContent(sentences int) string {
	var b strings.Builder
	for i := 0; i < sentences; i++ {
		fmt.Fprintf(&b, "The quick brown fox jumps over the lazy dog number %d. ", i)
	}
	return b.String()
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, c.chunkSize)
		}
		if c.overlap != DefaultOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultOverlap, c.overlap)
		}
	})

	t.Run("custom sizes", func(t *testing.T) {
		c := New(WithChunkSize(500), WithOverlap(100))
		if c.chunkSize != 500 || c.overlap != 100 {
			t.Errorf("expected 500/100, got %d/%d", c.chunkSize, c.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		if c.overlap >= c.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		if c.chunkSize != DefaultChunkSize || c.overlap != DefaultOverlap {
			t.Errorf("expected defaults, got %d/%d", c.chunkSize, c.overlap)
		}
	})
}

func TestChunk_EmptyContent(t *testing.T) {
	c := New()
	if got := c.Chunk("", "title"); len(got) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(got))
	}
	if got := c.Chunk("   \n\t ", "title"); len(got) != 0 {
		t.Errorf("expected 0 chunks for blank content, got %d", len(got))
	}
}

func TestChunk_SmallContent(t *testing.T) {
	c := New()
	content := "  A small note. Nothing to split here.  "

	chunks := c.Chunk(content, "note")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != strings.TrimSpace(content) {
		t.Errorf("chunk text should equal trimmed input, got %q", chunks[0].Content)
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if chunks[0].StartOffset != 0 || chunks[0].EndOffset != len(strings.TrimSpace(content)) {
		t.Errorf("unexpected offsets %d..%d", chunks[0].StartOffset, chunks[0].EndOffset)
	}
	if chunks[0].WordCount != 7 {
		t.Errorf("expected 7 words, got %d", chunks[0].WordCount)
	}
	want := (len(strings.TrimSpace(content)) + 3) / 4
	if chunks[0].TokenCount != want {
		t.Errorf("expected token estimate %d, got %d", want, chunks[0].TokenCount)
	}
}

func TestChunk_Reconstruction(t *testing.T) {
	c := New(WithChunkSize(300), WithOverlap(60))
	content := strings.TrimSpace(sampleContent(40))

	chunks := c.Chunk(content, "")
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	rebuilt := chunks[0].Content
	for i := 1; i < len(chunks); i++ {
		overlap := chunks[i-1].EndOffset - chunks[i].StartOffset
		if overlap < 0 {
			t.Fatalf("chunk %d skips content: prev end %d, start %d",
				i, chunks[i-1].EndOffset, chunks[i].StartOffset)
		}
		if overlap > 60 {
			t.Errorf("chunk %d overlap %d exceeds window", i, overlap)
		}
		rebuilt += chunks[i].Content[overlap:]
	}

	if rebuilt != content {
		t.Error("concatenation minus overlap prefixes does not reconstruct content")
	}
}

func TestChunk_IndicesAndOffsets(t *testing.T) {
	c := New(WithChunkSize(200), WithOverlap(40))
	chunks := c.Chunk(sampleContent(30), "")

	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("expected index %d, got %d", i, ch.Index)
		}
		if ch.EndOffset <= ch.StartOffset {
			t.Errorf("chunk %d has empty range %d..%d", i, ch.StartOffset, ch.EndOffset)
		}
		if i > 0 && ch.StartOffset < chunks[i-1].StartOffset {
			t.Errorf("chunk %d start offset went backwards", i)
		}
		if ch.Content == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestChunk_OversizedSentence(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(20))
	long := strings.Repeat("word ", 60) + "end."
	content := "Short intro. " + long + " Short outro."

	chunks := c.Chunk(content, "")
	found := false
	for _, ch := range chunks {
		if strings.HasPrefix(ch.Content, "word word") {
			found = true
			if !strings.HasSuffix(strings.TrimSpace(ch.Content), "end.") {
				t.Error("oversized sentence should be emitted unmodified")
			}
		} else if len(ch.Content) > 150 {
			t.Errorf("regular chunk of %d chars exceeds hard cap", len(ch.Content))
		}
	}
	if !found {
		t.Fatal("oversized sentence did not become its own chunk")
	}
}

func TestChunk_LongSentenceAfterClose(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(40))
	long := "This one sentence runs well past the configured target on its own while still staying below the hard cap limit."
	content := sampleContent(2) + long

	chunks := c.Chunk(content, "")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].EndOffset <= chunks[i-1].EndOffset {
			t.Errorf("chunk %d ends at %d without extending past the previous chunk (end %d)",
				i, chunks[i].EndOffset, chunks[i-1].EndOffset)
		}
		if chunks[i].Content == "" {
			t.Errorf("chunk %d carries no content of its own", i)
		}
	}
}

func TestChunk_SectionLabels(t *testing.T) {
	content := "INTRODUCTION\n" +
		"This part introduces the subject in some detail. " +
		strings.Repeat("Filler sentence to push past the boundary. ", 12) +
		"\n2. Methods\n" +
		strings.Repeat("The methods are described here at length. ", 12) +
		"\nSummary:\n" +
		strings.Repeat("The closing remarks continue for a while longer. ", 12)

	c := New(WithChunkSize(250), WithOverlap(50))
	chunks := c.Chunk(content, "Paper")

	sections := make(map[string]bool)
	for _, ch := range chunks {
		sections[ch.Section] = true
	}

	if !sections["INTRODUCTION"] {
		t.Error("expected a chunk labelled INTRODUCTION")
	}
	if !sections["2. Methods"] {
		t.Error("expected a chunk labelled 2. Methods")
	}
	if !sections["Summary"] {
		t.Error("expected a chunk labelled Summary")
	}
}

func TestChunk_SourceTitleFallback(t *testing.T) {
	c := New()
	chunks := c.Chunk("No headers anywhere in this text.", "Handbook")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Section != "Handbook" {
		t.Errorf("expected section fallback to source title, got %q", chunks[0].Section)
	}
}

func TestChunk_UniqueIDs(t *testing.T) {
	c := New(WithChunkSize(150), WithOverlap(30))
	chunks := c.Chunk(sampleContent(20), "")

	seen := make(map[string]bool)
	for _, ch := range chunks {
		if seen[ch.ID] {
			t.Errorf("duplicate chunk ID %s", ch.ID)
		}
		seen[ch.ID] = true
	}
}
