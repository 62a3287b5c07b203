package store

import (
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// CHUNKERS - PROSE, CODE, AND CSV FLATTENING
// =============================================================================

const (
	// DefaultChunkWords is the word budget per prose chunk.
	DefaultChunkWords = 300
	// DefaultCodeChunkLines is the line window per code chunk.
	DefaultCodeChunkLines = 160
	// DefaultCSVMaxRows caps how many CSV rows are flattened into text.
	DefaultCSVMaxRows = 50
	// fallbackChunkChars caps the single chunk emitted when word
	// splitting yields nothing.
	fallbackChunkChars = 1000
)

var lineSplitRe = regexp.MustCompile(`\r?\n`)

// ChunkWords splits text into fixed-size word windows. Input that yields
// no words still produces one truncated chunk of the raw text, so a
// document always keeps at least one row in the store.
func ChunkWords(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkWords
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		if len(text) > fallbackChunkChars {
			text = text[:fallbackChunkChars]
		}
		return []string{text}
	}
	chunks := make([]string, 0, len(words)/size+1)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// LineChunk is a window of source lines with its 1-based line range.
type LineChunk struct {
	Text      string
	LineStart int
	LineEnd   int
}

// ChunkLines splits source text into fixed-size line windows, preserving
// line ranges so search hits can cite file locations. Input that fits in
// one window comes back as a single chunk covering the whole text.
func ChunkLines(text string, size int) []LineChunk {
	if size <= 0 {
		size = DefaultCodeChunkLines
	}
	lines := lineSplitRe.Split(text, -1)
	chunks := make([]LineChunk, 0, len(lines)/size+1)
	for start := 0; start < len(lines); start += size {
		end := start + size
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, LineChunk{
			Text:      strings.Join(lines[start:end], "\n"),
			LineStart: start + 1,
			LineEnd:   end,
		})
	}
	if len(chunks) == 0 {
		chunks = append(chunks, LineChunk{Text: text, LineStart: 1, LineEnd: 1})
	}
	return chunks
}

// CSVToText flattens CSV content into retrieval-friendly prose. The first
// line becomes a "Columns:" header and each body row becomes a
// "Row N: col=value; ..." line, capped at maxRows with a truncation note.
func CSVToText(csv string, maxRows int) string {
	if maxRows <= 0 {
		maxRows = DefaultCSVMaxRows
	}
	var rows []string
	for _, r := range lineSplitRe.Split(csv, -1) {
		if strings.TrimSpace(r) != "" {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return ""
	}
	header := strings.Split(rows[0], ",")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	body := rows[1:]
	if len(body) > maxRows {
		body = body[:maxRows]
	}

	lines := []string{"Columns: " + strings.Join(header, ", ")}
	for idx, r := range body {
		cols := strings.Split(r, ",")
		pairs := make([]string, len(header))
		for i, h := range header {
			val := ""
			if i < len(cols) {
				val = strings.TrimSpace(cols[i])
			}
			pairs[i] = h + "=" + val
		}
		lines = append(lines, fmt.Sprintf("Row %d: %s", idx+1, strings.Join(pairs, "; ")))
	}
	if len(rows)-1 > maxRows {
		lines = append(lines, fmt.Sprintf("… truncated; total rows ≈ %d", len(rows)-1))
	}
	return strings.Join(lines, "\n")
}

// RowsToText flattens pre-parsed tabular rows into the same prose shape
// as CSVToText. The first row is treated as the header.
func RowsToText(rows [][]string, maxRows int) string {
	if maxRows <= 0 {
		maxRows = DefaultCSVMaxRows
	}
	if len(rows) == 0 {
		return ""
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	body := rows[1:]
	truncated := len(body) > maxRows
	if truncated {
		body = body[:maxRows]
	}

	lines := []string{"Columns: " + strings.Join(header, ", ")}
	for idx, r := range body {
		pairs := make([]string, len(header))
		for i, h := range header {
			val := ""
			if i < len(r) {
				val = strings.TrimSpace(r[i])
			}
			pairs[i] = h + "=" + val
		}
		lines = append(lines, fmt.Sprintf("Row %d: %s", idx+1, strings.Join(pairs, "; ")))
	}
	if truncated {
		lines = append(lines, fmt.Sprintf("… truncated; total rows ≈ %d", len(rows)-1))
	}
	return strings.Join(lines, "\n")
}
