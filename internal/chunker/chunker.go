package chunker

import (
	"regexp"
	"strings"

	"github.com/rivo/uniseg"
)

// DefaultSeparator is the paragraph break used when merging processed
// chunks back into one document.
const DefaultSeparator = "\n\n"

// Chunk is one bounded piece of the input document, tagged with its
// position so per-chunk results can be reassembled in order.
type Chunk struct {
	Index int
	Text  string
}

var (
	paragraphBreak = regexp.MustCompile(`\n\n+`)
	sentenceEnd    = regexp.MustCompile(`[.!?]\s+`)
)

// Size returns the length of s as a reader perceives it, counting
// grapheme clusters rather than bytes. For plain ASCII documents this
// equals len(s).
func Size(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Split breaks text into ordered chunks of at most maxSize characters.
// Paragraphs (runs of two or more newlines) are the preferred boundary;
// a paragraph that still exceeds maxSize is repacked along sentence
// boundaries. A single sentence longer than maxSize is emitted as an
// oversized chunk on its own: the splitter never cuts mid-sentence, so
// callers must tolerate chunks above the nominal bound.
//
// When chunking is disabled, or the whole text fits, the result is a
// single chunk holding the text untouched.
func Split(text string, maxSize int, enabled bool) []Chunk {
	if !enabled || Size(text) <= maxSize {
		return []Chunk{{Index: 0, Text: text}}
	}

	var parts []string
	for _, para := range paragraphBreak.Split(strings.TrimSpace(text), -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if Size(para) <= maxSize {
			parts = append(parts, para)
			continue
		}
		parts = append(parts, packSentences(splitSentences(para), maxSize)...)
	}

	chunks := make([]Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, Chunk{Index: i, Text: part})
	}
	return chunks
}

// splitSentences cuts a paragraph after each `.`, `!` or `?` that is
// followed by whitespace. The punctuation stays with its sentence; the
// whitespace run is consumed. Abbreviations are not special-cased, so a
// mis-split only moves a chunk boundary, never loses content.
func splitSentences(paragraph string) []string {
	locs := sentenceEnd.FindAllStringIndex(paragraph, -1)
	var sentences []string
	prev := 0
	for _, loc := range locs {
		sentences = append(sentences, paragraph[prev:loc[0]+1])
		prev = loc[1]
	}
	if prev < len(paragraph) {
		sentences = append(sentences, paragraph[prev:])
	}
	return sentences
}

// packSentences greedily fills chunks with sentences joined by a single
// space, closing a chunk when the next sentence would push it past
// maxSize.
func packSentences(sentences []string, maxSize int) []string {
	var packed []string
	current := ""
	currentSize := 0
	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		size := Size(sentence)
		if currentSize+size+1 <= maxSize {
			if current == "" {
				current = sentence
				currentSize = size
			} else {
				current += " " + sentence
				currentSize += size + 1
			}
			continue
		}
		if current != "" {
			packed = append(packed, current)
		}
		current = sentence
		currentSize = size
	}
	if current != "" {
		packed = append(packed, current)
	}
	return packed
}

// Merge joins processed chunk texts with separator, trimming each part
// and skipping any that trim to nothing. Exact original whitespace is
// not reconstructed.
func Merge(parts []string, separator string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, separator)
}
