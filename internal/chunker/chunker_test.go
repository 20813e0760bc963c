package chunker

import (
	"strings"
	"testing"
)

func TestSplit_SingleChunkWhenFits(t *testing.T) {
	text := "  Short agreement text.  "
	chunks := Split(text, 100, true)
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("Expected untouched input %q, got %q", text, chunks[0].Text)
	}
	if chunks[0].Index != 0 {
		t.Errorf("Expected index 0, got %d", chunks[0].Index)
	}
}

func TestSplit_SingleChunkWhenDisabled(t *testing.T) {
	text := strings.Repeat("This clause repeats. ", 50)
	chunks := Split(text, 100, false)
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("Expected untouched input, got %q", chunks[0].Text)
	}
}

func TestSplit_ParagraphBoundaries(t *testing.T) {
	text := "Paragraph one.\n\nParagraph two."
	chunks := Split(text, 20, true)
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "Paragraph one." {
		t.Errorf("Chunk 0: expected %q, got %q", "Paragraph one.", chunks[0].Text)
	}
	if chunks[1].Text != "Paragraph two." {
		t.Errorf("Chunk 1: expected %q, got %q", "Paragraph two.", chunks[1].Text)
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("Chunk %d: expected index %d, got %d", i, i, c.Index)
		}
	}
}

func TestSplit_SentencePacking(t *testing.T) {
	text := "One fish. Two fish. Red fish. Blue fish."
	chunks := Split(text, 24, true)
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d: %#v", len(chunks), chunks)
	}
	if chunks[0].Text != "One fish. Two fish." {
		t.Errorf("Chunk 0: got %q", chunks[0].Text)
	}
	if chunks[1].Text != "Red fish. Blue fish." {
		t.Errorf("Chunk 1: got %q", chunks[1].Text)
	}
	for _, c := range chunks {
		if Size(c.Text) > 24 {
			t.Errorf("Chunk %d exceeds max size: %d", c.Index, Size(c.Text))
		}
	}
}

func TestSplit_OversizedSentenceKeptWhole(t *testing.T) {
	long := strings.Repeat("a", 50) + " and so it continues without a break."
	text := long + " Short one."
	chunks := Split(text, 30, true)
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d: %#v", len(chunks), chunks)
	}
	if chunks[0].Text != long {
		t.Errorf("Chunk 0: expected the oversized sentence intact, got %q", chunks[0].Text)
	}
	if Size(chunks[0].Text) <= 30 {
		t.Errorf("Expected chunk 0 to exceed the nominal bound")
	}
	if chunks[1].Text != "Short one." {
		t.Errorf("Chunk 1: got %q", chunks[1].Text)
	}
}

func TestSplit_DropsEmptyParagraphs(t *testing.T) {
	text := "First.\n\n   \n\nSecond."
	chunks := Split(text, 10, true)
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d: %#v", len(chunks), chunks)
	}
	if chunks[0].Text != "First." || chunks[1].Text != "Second." {
		t.Errorf("Unexpected chunks: %#v", chunks)
	}
}

func TestSplit_MixedParagraphSizes(t *testing.T) {
	small := "Tiny paragraph."
	big := "Sentence number one is here. Sentence number two is here. Sentence number three is here."
	chunks := Split(small+"\n\n"+big, 40, true)

	if len(chunks) < 3 {
		t.Fatalf("Expected at least 3 chunks, got %d: %#v", len(chunks), chunks)
	}
	if chunks[0].Text != small {
		t.Errorf("Chunk 0: got %q", chunks[0].Text)
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("Chunk %d carries index %d", i, c.Index)
		}
		if Size(c.Text) > 40 {
			t.Errorf("Chunk %d exceeds max size: %q", i, c.Text)
		}
	}
}

func TestMerge(t *testing.T) {
	cases := []struct {
		name      string
		parts     []string
		separator string
		want      string
	}{
		{"trims and joins", []string{" P1 ", "P2"}, "\n\n", "P1\n\nP2"},
		{"skips empty parts", []string{"P1", "", "  \n ", "P2"}, "\n\n", "P1\n\nP2"},
		{"custom separator", []string{"a", "b", "c"}, " ", "a b c"},
		{"all empty", []string{"", "   "}, "\n\n", ""},
		{"nil input", nil, "\n\n", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Merge(tc.parts, tc.separator); got != tc.want {
				t.Errorf("Merge() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMerge_SplitRoundTrip(t *testing.T) {
	text := "Alpha beta gamma.\n\nDelta epsilon zeta.\n\nEta theta iota."
	chunks := Split(text, 20, true)

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	merged := Merge(parts, DefaultSeparator)
	if merged != text {
		t.Errorf("Round trip changed content:\n got %q\nwant %q", merged, text)
	}
}

func TestSize_GraphemeClusters(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"abc", 3},
		{"héllo", 5},
		{"", 0},
		{"👍🏽", 1},
	}
	for _, tc := range cases {
		if got := Size(tc.in); got != tc.want {
			t.Errorf("Size(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
