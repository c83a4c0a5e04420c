// Package documents manages the knowledge base corpus: text extraction,
// chunking, embedding and the document catalog.
package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/adnanhb/flowrag/internal/chunker"
	"github.com/adnanhb/flowrag/internal/db"
	"github.com/adnanhb/flowrag/internal/vectordb"
	"github.com/adnanhb/flowrag/internal/walker"
)

// ErrNotFound is returned when a document ID does not exist.
var ErrNotFound = errors.New("document not found")

// Document is one entry in the knowledge base catalog. Content is only
// populated by GetText.
type Document struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	Content     string     `json:"content,omitempty"`
	ChunkCount  int        `json:"chunk_count"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// Options configures a Service.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	PersistDir   string // index snapshot directory; empty disables persistence
}

// Service owns the document lifecycle from raw bytes to searchable chunks.
type Service struct {
	db    *db.DB
	store vectordb.VectorStore
	opts  Options
	logf  func(format string, args ...any)
}

// NewService creates a Service. logf may be nil to discard diagnostics.
func NewService(database *db.DB, store vectordb.VectorStore, opts Options, logf func(format string, args ...any)) *Service {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunker.DefaultChunkSize
	}
	if opts.ChunkOverlap < 0 {
		opts.ChunkOverlap = chunker.DefaultOverlap
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Service{db: database, store: store, opts: opts, logf: logf}
}

// Ingest extracts text from the document, stores it in the catalog and
// indexes its chunks. A document whose embedding fails is still cataloged
// with a zero chunk count; the embedding error is returned alongside it.
func (s *Service) Ingest(ctx context.Context, filename string, data []byte) (*Document, error) {
	content, err := ExtractText(filename, data)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ID:         uuid.New().String(),
		Filename:   filename,
		Content:    content,
		UploadedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents (id, filename, content, chunk_count) VALUES (?, ?, ?, 0)",
		doc.ID, doc.Filename, doc.Content,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}

	if content == "" {
		return doc, nil
	}
	if err := s.index(ctx, doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// Reprocess re-chunks and re-embeds an already cataloged document from its
// stored text.
func (s *Service) Reprocess(ctx context.Context, id string) (*Document, error) {
	doc, err := s.GetText(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Content == "" {
		return doc, fmt.Errorf("document %s has no extracted text", id)
	}
	if err := s.index(ctx, doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// index chunks the document content, replaces its chunks in the vector
// store and updates the catalog row.
func (s *Service) index(ctx context.Context, doc *Document) error {
	chunks := chunker.Split(doc.Content, s.opts.ChunkSize, s.opts.ChunkOverlap)

	if err := s.store.UpsertDocument(ctx, doc.ID, doc.Filename, chunks); err != nil {
		return fmt.Errorf("indexing %s: %w", doc.Filename, err)
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"UPDATE documents SET chunk_count = ?, processed_at = ? WHERE id = ?",
		len(chunks), now.Format(time.DateTime), doc.ID,
	)
	if err != nil {
		return fmt.Errorf("updating document %s: %w", doc.ID, err)
	}

	doc.ChunkCount = len(chunks)
	doc.ProcessedAt = &now
	s.persist(ctx)
	return nil
}

// persist snapshots the vector index. Failures are diagnostic only; the
// in-memory index stays authoritative for the running process.
func (s *Service) persist(ctx context.Context) {
	if s.opts.PersistDir == "" {
		return
	}
	if err := s.store.Persist(ctx, s.opts.PersistDir); err != nil {
		s.logf("persisting vector index: %v", err)
	}
}

// List returns all cataloged documents, newest first, without content.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, chunk_count, uploaded_at, processed_at
		FROM documents ORDER BY uploaded_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			d           Document
			uploaded    string
			processedAt sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Filename, &d.ChunkCount, &uploaded, &processedAt); err != nil {
			return nil, err
		}
		d.UploadedAt = parseTimestamp(uploaded)
		if processedAt.Valid {
			t := parseTimestamp(processedAt.String)
			d.ProcessedAt = &t
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// GetText retrieves one document including its extracted text.
func (s *Service) GetText(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, content, chunk_count, uploaded_at, processed_at
		FROM documents WHERE id = ?`, id)

	var (
		d           Document
		uploaded    string
		processedAt sql.NullString
	)
	err := row.Scan(&d.ID, &d.Filename, &d.Content, &d.ChunkCount, &uploaded, &processedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	d.UploadedAt = parseTimestamp(uploaded)
	if processedAt.Valid {
		t := parseTimestamp(processedAt.String)
		d.ProcessedAt = &t
	}
	return &d, nil
}

// Delete removes a document from the catalog and the vector index.
func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("removing document chunks: %w", err)
	}
	s.persist(ctx)
	return nil
}

// IngestStats summarizes a directory ingestion run.
type IngestStats struct {
	Files  int
	Chunks int
	Failed int
}

// IngestDir walks root and ingests every matching document. onFile, when
// non-nil, is called before each file is processed (used for progress
// reporting). Individual file failures are counted and logged, not fatal.
func (s *Service) IngestDir(ctx context.Context, root string, include, exclude []string, onFile func(walker.FileInfo)) (IngestStats, error) {
	files, err := walker.Walk(walker.Config{
		RootDir: root,
		Include: include,
		Exclude: exclude,
	})
	if err != nil {
		return IngestStats{}, err
	}

	var stats IngestStats
	for _, f := range files {
		if onFile != nil {
			onFile(f)
		}

		data, err := os.ReadFile(f.Path)
		if err != nil {
			s.logf("reading %s: %v", f.RelPath, err)
			stats.Failed++
			continue
		}

		doc, err := s.Ingest(ctx, f.RelPath, data)
		if err != nil {
			s.logf("ingesting %s: %v", f.RelPath, err)
			stats.Failed++
			continue
		}
		stats.Files++
		stats.Chunks += doc.ChunkCount
	}
	return stats, nil
}

func parseTimestamp(ts string) time.Time {
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t
	}
	return time.Time{}
}
