package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"agentlee/internal/deck"
	"agentlee/internal/logging"
)

// =============================================================================
// BOOTSTRAP - CORPUS INGESTION
// =============================================================================

// coreCSV describes one of the data files the evidence pipeline depends on.
type coreCSV struct {
	docID       string
	file        string
	topic       string
	description string
}

var coreCSVs = []coreCSV{
	{"bid_amounts", "bid_amounts.csv", "bids", "Bid amounts and competitors for Visu-Sewer projects"},
	{"cctv_inspection", "cctv_inspection.csv", "cctv", "Defect types, severity, and affected length by segment"},
	{"contractor_schedule", "contractor_schedule.csv", "schedule", "Task schedule, start/end dates, and % complete over time"},
	{"project_costs", "project_costs.csv", "costs", "Yearly budgeted vs actual spend and variance"},
}

// codeExtensions are indexed with line-aware chunking.
var codeExtensions = map[string]bool{
	".go": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".py": true, ".java": true, ".c": true, ".h": true, ".sql": true,
}

// Bootstrap seeds the store with the slide narrations and the core CSV
// data files from dataDir. Each source fails independently; a missing or
// unreadable file is logged and skipped so the rest of the corpus still
// loads.
func (s *DocumentStore) Bootstrap(ctx context.Context, story *deck.Story, dataDir string) error {
	timer := logging.StartTimer(logging.CategoryStore, "Bootstrap")
	defer timer.Stop()

	indexed := 0
	for i := range story.Slides {
		slide := &story.Slides[i]
		docID := "deck:" + slide.ID
		_, narrative := deck.NarrativeText(slide)
		text := slide.Title + ". " + narrative
		meta := map[string]string{
			"type":  "narration",
			"slide": slide.ID,
			"title": slide.Title,
		}
		if err := s.AddDocument(ctx, docID, text, meta); err != nil {
			logging.StoreWarn("Bootstrap: failed to index %s: %v", docID, err)
			continue
		}
		indexed++
	}
	logging.Store("Bootstrap: indexed %d slide narrations", indexed)

	for _, c := range coreCSVs {
		path := filepath.Join(dataDir, c.file)
		raw, err := os.ReadFile(path)
		if err != nil {
			logging.StoreWarn("Bootstrap: could not read %s: %v", path, err)
			continue
		}
		text := CSVToText(string(raw), 200)
		meta := map[string]string{
			"type":        "csv",
			"topic":       c.topic,
			"description": c.description,
			"path":        path,
		}
		if err := s.AddDocument(ctx, c.docID, text, meta); err != nil {
			logging.StoreWarn("Bootstrap: failed to index %s: %v", c.docID, err)
			continue
		}
		logging.Store("Bootstrap: indexed %s from %s", c.docID, path)
	}
	return nil
}

// IngestFile indexes a single file, choosing the chunker by extension:
// CSVs are flattened to prose first, workbooks go through the installed
// tabular reader, known source extensions get line-aware chunks, and
// everything else is indexed as plain text.
func (s *DocumentStore) IngestFile(ctx context.Context, path string) error {
	docID := DocIDForPath(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" || ext == ".xls" {
		return s.ingestWorkbook(ctx, path, docID)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	meta := map[string]string{"path": path}

	switch {
	case ext == ".csv":
		meta["type"] = "csv"
		return s.AddDocument(ctx, docID, CSVToText(string(raw), 200), meta)
	case codeExtensions[ext]:
		// Same docID as every other branch so the watcher's remove path
		// can find it.
		meta["lang"] = strings.TrimPrefix(ext, ".")
		return s.AddCodeDocument(ctx, docID, string(raw), meta)
	default:
		meta["type"] = "text"
		return s.AddDocument(ctx, docID, string(raw), meta)
	}
}

// TabularReader parses a spreadsheet workbook into rows per sheet. The
// store carries no spreadsheet dependency of its own; hosts that want
// workbook ingestion install a reader via SetTabularReader.
type TabularReader interface {
	ReadSheets(path string) (map[string][][]string, error)
}

// SetTabularReader installs the workbook parser used for .xlsx and .xls
// files. Without one, workbook files are skipped with a warning.
func (s *DocumentStore) SetTabularReader(r TabularReader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabular = r
}

func (s *DocumentStore) tabularReader() TabularReader {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tabular
}

// ingestWorkbook indexes each sheet of a workbook as its own document so
// sheet names survive into citations.
func (s *DocumentStore) ingestWorkbook(ctx context.Context, path, docID string) error {
	reader := s.tabularReader()
	if reader == nil {
		logging.StoreWarn("IngestFile: no tabular reader installed; skipping %s", path)
		return nil
	}
	sheets, err := reader.ReadSheets(path)
	if err != nil {
		return fmt.Errorf("failed to parse workbook %s: %w", path, err)
	}
	for name, rows := range sheets {
		text := RowsToText(rows, 200)
		if text == "" {
			continue
		}
		meta := map[string]string{"path": path, "type": "spreadsheet", "sheet": name}
		if err := s.AddDocument(ctx, docID+"__"+name, text, meta); err != nil {
			return err
		}
		logging.Store("IngestFile: indexed sheet %s from %s", name, path)
	}
	return nil
}

// DocIDForPath derives a stable document ID from a file path.
func DocIDForPath(path string) string {
	id := strings.TrimLeft(filepath.ToSlash(path), "/")
	return strings.ReplaceAll(id, "/", "_")
}
