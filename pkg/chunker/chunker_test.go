package chunker

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 100, 10)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "short text" {
		t.Errorf("expected original text back, got %q", chunks[0])
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := SplitText(text, 40, 10)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}

	// Each chunk should start 30 chars (size - overlap) after the previous
	for i, chunk := range chunks {
		start := i * 30
		if !strings.HasPrefix(text[start:], chunk) {
			t.Errorf("chunk %d does not align with offset %d", i, start)
		}
	}

	// Last chunk must reach the end of the text
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Error("last chunk does not cover the end of the text")
	}
}

func TestSplitTextOverlapLargerThanSize(t *testing.T) {
	text := strings.Repeat("x", 50)
	chunks := SplitText(text, 10, 20)

	// Falls back to non-overlapping steps instead of looping forever
	if len(chunks) != 5 {
		t.Fatalf("expected 5 chunks, got %d", len(chunks))
	}
}

func TestSplitTextPreservesMultibyteRunes(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 20)
	chunks := SplitText(text, 30, 5)

	for i, chunk := range chunks {
		if strings.ContainsRune(chunk, '�') {
			t.Errorf("chunk %d contains a broken rune", i)
		}
	}
}
