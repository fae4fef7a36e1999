// Package chunker splits document text into overlapping, bounded-size
// chunks suitable for embedding.
package chunker

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// DefaultChunkSize is the default target number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
// The overlap suffix seeded into the next chunk is roughly
// DefaultOverlap/5 words.
const DefaultOverlap = 200

// hardCapNum/hardCapDen bound a single chunk at 1.5x the target size.
// A lone sentence beyond the cap becomes its own chunk unmodified.
const (
	hardCapNum = 3
	hardCapDen = 2
)

var (
	numberedHeader = regexp.MustCompile(`^\d+[.)]\s+\S`)
	labelledHeader = regexp.MustCompile(`^[A-Za-z][^:]{0,60}:$`)
)

// Chunker splits content into sentence-aligned chunks with overlap.
// Every chunk's text is an exact substring of the trimmed content, so
// concatenating chunk texts minus each non-first chunk's overlap prefix
// reconstructs the content exactly.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap window in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// span is a half-open [start,end) range into the content.
type span struct {
	start int
	end   int
}

// Chunk splits content into ordered, overlapping chunks. Empty content
// yields zero chunks; content no longer than the target size yields
// exactly one chunk whose text equals the trimmed input. The returned
// chunks carry index, offsets, word/token counts and a best-effort
// section label; DocumentID and Embedding are left for the caller.
func (c *Chunker) Chunk(content, sourceTitle string) []domain.Chunk {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	hardCap := c.chunkSize * hardCapNum / hardCapDen
	sentences := splitSentences(content)
	headers := detectHeaders(content)

	var spans []span
	chunkStart := 0
	prevEnd := 0
	// fresh reports whether a sentence has been appended since the
	// last close. A freshly seeded overlap suffix alone never closes:
	// that would emit a chunk carrying no new content.
	fresh := false

	for _, s := range sentences {
		if s.end-s.start > hardCap {
			// Oversized single sentence: flush the running chunk and
			// emit the sentence as its own chunk, no overlap seeding.
			if fresh {
				spans = append(spans, span{chunkStart, prevEnd})
			}
			spans = append(spans, span{s.start, s.end})
			chunkStart = s.end
			prevEnd = s.end
			fresh = false
			continue
		}

		if s.end-chunkStart > c.chunkSize && fresh {
			spans = append(spans, span{chunkStart, prevEnd})
			chunkStart = c.overlapStart(content, chunkStart, prevEnd)
			fresh = false
		}
		prevEnd = s.end
		fresh = true
	}

	if fresh {
		spans = append(spans, span{chunkStart, prevEnd})
	}

	chunks := make([]domain.Chunk, 0, len(spans))
	for i, sp := range spans {
		text := content[sp.start:sp.end]
		chunks = append(chunks, domain.Chunk{
			ID:          uuid.New().String(),
			Index:       i,
			Content:     text,
			StartOffset: sp.start,
			EndOffset:   sp.end,
			WordCount:   len(strings.Fields(text)),
			TokenCount:  (len(text) + 3) / 4,
			Section:     sectionAt(headers, sp.start, sourceTitle),
		})
	}

	return chunks
}

// overlapStart walks back from end over roughly overlap/5 words and
// returns the offset where the overlap suffix begins. The result never
// precedes the closed chunk's own start and the suffix never exceeds
// the overlap window in characters, so adjacent chunks overlap by at
// most the configured window.
func (c *Chunker) overlapStart(content string, chunkStart, end int) int {
	words := c.overlap / 5
	if words <= 0 {
		return end
	}

	inWord := false
	count := 0
	start := end
	for i := end - 1; i >= chunkStart; i-- {
		if unicode.IsSpace(rune(content[i])) {
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			count++
		}
		start = i
		if count >= words && (i == chunkStart || unicode.IsSpace(rune(content[i-1]))) {
			break
		}
	}

	if count < 1 {
		return end
	}

	// Clamp to the window, moving forward to the next word boundary so
	// the seeded suffix never begins mid-word.
	for start < end-c.overlap {
		for start < end && !unicode.IsSpace(rune(content[start])) {
			start++
		}
		for start < end && unicode.IsSpace(rune(content[start])) {
			start++
		}
	}
	return start
}

// splitSentences returns contiguous sentence spans covering the whole
// content. A sentence ends after `.`, `!` or `?`; trailing whitespace
// is attached to the following sentence. Content without terminal
// punctuation is a single span.
func splitSentences(content string) []span {
	var spans []span
	start := 0
	i := 0
	n := len(content)

	for i < n {
		ch := content[i]
		if ch == '.' || ch == '!' || ch == '?' {
			// Consume a run of terminators (e.g., "?!", "...").
			for i+1 < n {
				next := content[i+1]
				if next != '.' && next != '!' && next != '?' {
					break
				}
				i++
			}
			spans = append(spans, span{start, i + 1})
			// Skip whitespace into the next sentence's start.
			i++
			for i < n && unicode.IsSpace(rune(content[i])) {
				i++
			}
			if len(spans) > 0 {
				spans[len(spans)-1].end = i
			}
			start = i
			continue
		}
		i++
	}

	if start < n {
		spans = append(spans, span{start, n})
	}

	return spans
}

// header pairs a content offset with the detected section label.
type header struct {
	offset int
	label  string
}

// detectHeaders scans lines for header-looking text: short lines that
// are all-caps, numbered ("1. Intro") or labelled ("Summary:").
func detectHeaders(content string) []header {
	var headers []header
	offset := 0

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if isHeaderLine(trimmed) {
			headers = append(headers, header{
				offset: offset,
				label:  strings.TrimSuffix(trimmed, ":"),
			})
		}
		offset += len(line) + 1
	}

	return headers
}

func isHeaderLine(line string) bool {
	if line == "" || len(line) > 80 {
		return false
	}
	if numberedHeader.MatchString(line) || labelledHeader.MatchString(line) {
		return true
	}

	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return letters > 1
}

// sectionAt returns the label of the last header at or before offset,
// falling back to the source title before the first header.
func sectionAt(headers []header, offset int, sourceTitle string) string {
	section := sourceTitle
	for _, h := range headers {
		if h.offset > offset {
			break
		}
		section = h.label
	}
	return section
}
