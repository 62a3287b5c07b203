// Package store persists embedded text chunks in SQLite and answers
// similarity queries over them. It is the retrieval half of the
// evidence pipeline: documents go in as fixed-size chunks with
// embeddings, and queries come back as the top-scoring chunks.
package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"agentlee/internal/embedding"
	"agentlee/internal/logging"

	_ "modernc.org/sqlite"
)

// =============================================================================
// DOCUMENT STORE - SQLITE-BACKED CHUNK STORAGE
// =============================================================================

// Chunk is one stored unit of a document: its text, its embedding, and
// whatever metadata the ingester attached (source path, line range, topic).
type Chunk struct {
	ID        string
	DocID     string
	Text      string
	Embedding []float32
	Metadata  map[string]string
	CreatedAt time.Time
}

// SearchResult pairs a chunk with its cosine similarity to the query.
type SearchResult struct {
	Chunk
	Score float64
}

// DocumentStore owns the SQLite database of embedded chunks.
type DocumentStore struct {
	db       *sql.DB
	mu       sync.RWMutex
	dbPath   string
	embedder *embedding.Provider
	tabular  TabularReader
}

// Open initializes the store at the given path, creating the schema and
// parent directories as needed.
func Open(path string, embedder *embedding.Provider) (*DocumentStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	logging.Store("Opening document store at %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &DocumentStore{db: db, dbPath: path, embedder: embedder}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.StoreDebug("Document store schema ready")
	return s, nil
}

func (s *DocumentStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chunks (
		id         TEXT PRIMARY KEY,
		doc_id     TEXT NOT NULL,
		text       TEXT NOT NULL,
		embedding  BLOB NOT NULL,
		metadata   TEXT NOT NULL DEFAULT '{}',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_doc_id ON chunks(doc_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (s *DocumentStore) Close() error {
	logging.Store("Closing document store")
	return s.db.Close()
}

// AddDocument replaces the document's chunks with fresh 300-word windows.
// Re-adding a docID removes its previous chunks in the same transaction, so
// a partially failed ingest never leaves a mix of old and new chunks.
func (s *DocumentStore) AddDocument(ctx context.Context, docID, text string, metadata map[string]string) error {
	chunks := ChunkWords(text, DefaultChunkWords)
	rows := make([]Chunk, len(chunks))
	for i, c := range chunks {
		rows[i] = Chunk{
			ID:       fmt.Sprintf("%s__%d", docID, i),
			DocID:    docID,
			Text:     c,
			Metadata: metadata,
		}
	}
	return s.replaceDocument(ctx, docID, rows)
}

// AddCodeDocument indexes source text in 160-line windows, recording the
// line range of each window in its ID and metadata so search hits can
// cite exact file locations.
func (s *DocumentStore) AddCodeDocument(ctx context.Context, docID, text string, metadata map[string]string) error {
	windows := ChunkLines(text, DefaultCodeChunkLines)
	rows := make([]Chunk, len(windows))
	for i, w := range windows {
		meta := make(map[string]string, len(metadata)+3)
		for k, v := range metadata {
			meta[k] = v
		}
		meta["lineStart"] = fmt.Sprintf("%d", w.LineStart)
		meta["lineEnd"] = fmt.Sprintf("%d", w.LineEnd)
		if meta["type"] == "" {
			meta["type"] = "code"
		}
		rows[i] = Chunk{
			ID:       fmt.Sprintf("%s__%d-%d", docID, w.LineStart, w.LineEnd),
			DocID:    docID,
			Text:     w.Text,
			Metadata: meta,
		}
	}
	return s.replaceDocument(ctx, docID, rows)
}

func (s *DocumentStore) replaceDocument(ctx context.Context, docID string, rows []Chunk) error {
	timer := logging.StartTimer(logging.CategoryStore, "replaceDocument")
	defer timer.StopWithThreshold(500 * time.Millisecond)

	// Embed outside the transaction; the provider never fails but a slow
	// primary engine must not hold the write lock.
	texts := make([]string, len(rows))
	for i := range rows {
		texts[i] = rows[i].Text
	}
	vectors := s.embedder.EmbedBatch(ctx, texts)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("failed to clear previous chunks for %s: %w", docID, err)
	}

	now := time.Now()
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO chunks (id, doc_id, text, embedding, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		metaJSON, err := json.Marshal(orEmptyMeta(row.Metadata))
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %s: %w", row.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, row.ID, row.DocID, row.Text, encodeEmbedding(vectors[i]), string(metaJSON), now.UnixMilli()); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", row.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit document %s: %w", docID, err)
	}
	logging.StoreDebug("Indexed %s as %d chunks", docID, len(rows))
	return nil
}

// RemoveDocument deletes all chunks of the given document.
func (s *DocumentStore) RemoveDocument(ctx context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE doc_id = ?", docID)
	if err != nil {
		return fmt.Errorf("failed to remove document %s: %w", docID, err)
	}
	n, _ := res.RowsAffected()
	logging.StoreDebug("Removed %s (%d chunks)", docID, n)
	return nil
}

// Search embeds the query and returns the topK most similar chunks by
// cosine similarity, scanning the full table. topK <= 0 defaults to 5.
func (s *DocumentStore) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Search")
	defer timer.StopWithThreshold(250 * time.Millisecond)

	if topK <= 0 {
		topK = 5
	}
	qVec := s.embedder.Embed(ctx, query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, doc_id, text, embedding, metadata, created_at FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("failed to scan chunks: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			chunk     Chunk
			blob      []byte
			metaJSON  string
			createdAt int64
		)
		if err := rows.Scan(&chunk.ID, &chunk.DocID, &chunk.Text, &blob, &metaJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		chunk.Embedding = decodeEmbedding(blob)
		chunk.CreatedAt = time.UnixMilli(createdAt)
		if err := json.Unmarshal([]byte(metaJSON), &chunk.Metadata); err != nil {
			chunk.Metadata = map[string]string{}
		}
		results = append(results, SearchResult{
			Chunk: chunk,
			Score: embedding.Cosine(qVec, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chunk scan failed: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Clear removes every chunk from the store.
func (s *DocumentStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	logging.Store("Cleared all chunks")
	return nil
}

// Count reports how many chunks are stored.
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

// DocumentCount reports how many distinct documents are stored.
func (s *DocumentStore) DocumentCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT doc_id) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

func orEmptyMeta(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

// =============================================================================
// EMBEDDING CODEC - FLOAT32 LITTLE-ENDIAN BLOBS
// =============================================================================

func encodeEmbedding(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeEmbedding(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec
}
