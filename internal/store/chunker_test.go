package store

import (
	"fmt"
	"strings"
	"testing"
)

func TestChunkWords(t *testing.T) {
	words := make([]string, 650)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	chunks := ChunkWords(strings.Join(words, " "), 300)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if n := len(strings.Fields(chunks[0])); n != 300 {
		t.Errorf("first chunk has %d words, want 300", n)
	}
	if n := len(strings.Fields(chunks[2])); n != 50 {
		t.Errorf("last chunk has %d words, want 50", n)
	}
	if !strings.HasPrefix(chunks[1], "w300 ") {
		t.Errorf("second chunk should start at w300, got %q", chunks[1][:20])
	}
}

func TestChunkWords_WordlessFallback(t *testing.T) {
	if chunks := ChunkWords("", 300); len(chunks) != 1 || chunks[0] != "" {
		t.Errorf("empty text should fall back to one chunk, got %v", chunks)
	}
	if chunks := ChunkWords("   \n\t ", 300); len(chunks) != 1 {
		t.Errorf("whitespace should fall back to one chunk, got %v", chunks)
	}
	long := strings.Repeat("\n", 1500)
	chunks := ChunkWords(long, 300)
	if len(chunks) != 1 || len(chunks[0]) != fallbackChunkChars {
		t.Errorf("fallback chunk should be truncated to %d chars, got %d chunks of %d",
			fallbackChunkChars, len(chunks), len(chunks[0]))
	}
}

func TestChunkLines(t *testing.T) {
	lines := make([]string, 400)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	chunks := ChunkLines(strings.Join(lines, "\n"), 160)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	want := []struct{ start, end int }{{1, 160}, {161, 320}, {321, 400}}
	for i, w := range want {
		if chunks[i].LineStart != w.start || chunks[i].LineEnd != w.end {
			t.Errorf("chunk %d range = %d-%d, want %d-%d", i, chunks[i].LineStart, chunks[i].LineEnd, w.start, w.end)
		}
	}
	if !strings.HasPrefix(chunks[1].Text, "line 161") {
		t.Errorf("second chunk should start at line 161")
	}
}

func TestChunkLines_SingleWindow(t *testing.T) {
	chunks := ChunkLines("one\ntwo", 160)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].LineStart != 1 || chunks[0].LineEnd != 2 {
		t.Errorf("range = %d-%d, want 1-2", chunks[0].LineStart, chunks[0].LineEnd)
	}
}

func TestCSVToText(t *testing.T) {
	csv := "year, method ,cost\n2023,CIPP,100\n2024,Open-Cut,200\n"
	text := CSVToText(csv, 200)
	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), text)
	}
	if lines[0] != "Columns: year, method, cost" {
		t.Errorf("header line = %q", lines[0])
	}
	if lines[1] != "Row 1: year=2023; method=CIPP; cost=100" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "Row 2: year=2024; method=Open-Cut; cost=200" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestCSVToText_Truncates(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,value\n")
	for i := 0; i < 10; i++ {
		sb.WriteString(fmt.Sprintf("%d,%d\n", i, i*10))
	}
	text := CSVToText(sb.String(), 4)
	if !strings.Contains(text, "Row 4:") {
		t.Errorf("expected 4 body rows, got %q", text)
	}
	if strings.Contains(text, "Row 5:") {
		t.Errorf("row 5 should have been truncated")
	}
	if !strings.Contains(text, "total rows ≈ 10") {
		t.Errorf("missing truncation note: %q", text)
	}
}

func TestCSVToText_ShortRowsAndEmpty(t *testing.T) {
	if got := CSVToText("", 50); got != "" {
		t.Errorf("empty CSV should flatten to empty string, got %q", got)
	}
	// Rows shorter than the header pad missing cells with empty values.
	text := CSVToText("a,b,c\n1,2\n", 50)
	if !strings.Contains(text, "Row 1: a=1; b=2; c=") {
		t.Errorf("short row not padded: %q", text)
	}
}
