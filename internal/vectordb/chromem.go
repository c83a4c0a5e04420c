package vectordb

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/adnanhb/flowrag/internal/embeddings"
)

const collectionName = "documents"

// ChunkID returns the deterministic ID for a document's i-th chunk.
func ChunkID(documentID string, i int) string {
	return fmt.Sprintf("doc_%s_chunk_%d", documentID, i)
}

// ChromemStore implements VectorStore using chromem-go.
//
// The on-disk index file is tagged with the embedder name, so an index built
// with one embedding backend is never loaded into a deployment pinned to
// another: vectors of different dimensionality cannot mix, and switching
// backends requires `flowrag reindex`.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embeddings.Embedder
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemStore creates a new in-memory ChromemStore.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		embedder:   embedder,
		embedFunc:  ef,
	}, nil
}

func (s *ChromemStore) UpsertDocument(ctx context.Context, documentID, filename string, chunks []string) error {
	if err := s.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("replace existing chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:      ChunkID(documentID, i),
			Content: chunk,
			Metadata: metadataToMap(ChunkMetadata{
				DocumentID: documentID,
				Filename:   filename,
				ChunkIndex: i,
				ChunkSize:  len(chunk),
			}),
		}
	}

	return s.collection.AddDocuments(ctx, docs, 1)
}

func (s *ChromemStore) Query(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 3
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			Chunk: Chunk{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}

	return searchResults, nil
}

func (s *ChromemStore) DeleteDocument(ctx context.Context, documentID string) error {
	if s.collection.Count() == 0 {
		return nil
	}
	where := map[string]string{"document_id": documentID}
	return s.collection.Delete(ctx, where, nil)
}

// indexFile returns the index path for this store's embedder. The embedder
// name is part of the filename: that is what prevents loading vectors built
// by a different backend.
func (s *ChromemStore) indexFile(dir string) string {
	tag := strings.ReplaceAll(s.embedder.Name(), "/", "-")
	return filepath.Join(dir, fmt.Sprintf("chromem-%s.gob.gz", tag))
}

func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(s.indexFile(dir), true, "")
}

func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	err := s.db.ImportFromFile(s.indexFile(dir), "")
	if err != nil {
		return fmt.Errorf("import index for embedder %s: %w", s.embedder.Name(), err)
	}

	// Re-acquire collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

// metadataToMap converts ChunkMetadata to a flat map[string]string for chromem.
func metadataToMap(m ChunkMetadata) map[string]string {
	return map[string]string{
		"document_id": m.DocumentID,
		"filename":    m.Filename,
		"chunk_index": strconv.Itoa(m.ChunkIndex),
		"chunk_size":  strconv.Itoa(m.ChunkSize),
	}
}

// mapToMetadata converts a flat map[string]string back to ChunkMetadata.
func mapToMetadata(m map[string]string) ChunkMetadata {
	chunkIndex, _ := strconv.Atoi(m["chunk_index"])
	chunkSize, _ := strconv.Atoi(m["chunk_size"])

	return ChunkMetadata{
		DocumentID: m["document_id"],
		Filename:   m["filename"],
		ChunkIndex: chunkIndex,
		ChunkSize:  chunkSize,
	}
}
