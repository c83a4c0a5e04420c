// Package vectordb stores document chunk embeddings and answers
// nearest-neighbor queries over them.
package vectordb

import "context"

// ChunkMetadata holds structured information about a stored chunk.
type ChunkMetadata struct {
	DocumentID string
	Filename   string
	ChunkIndex int
	ChunkSize  int
}

// Chunk is one retrieved unit of knowledge-base context.
type Chunk struct {
	ID       string
	Content  string
	Metadata ChunkMetadata
}

// SearchResult pairs a chunk with its similarity score.
type SearchResult struct {
	Chunk      Chunk
	Similarity float32
}

// VectorStore defines the interface for storing and searching chunks by embedding.
type VectorStore interface {
	// UpsertDocument embeds and stores the chunks of one document. Chunk IDs
	// are deterministic (doc_{documentID}_chunk_{i}), and any chunks
	// previously stored for the document are replaced, so re-indexing the
	// same document is idempotent.
	UpsertDocument(ctx context.Context, documentID, filename string, chunks []string) error

	// Query returns up to limit chunks nearest to the query text. An empty
	// index yields an empty result, not an error.
	Query(ctx context.Context, query string, limit int) ([]SearchResult, error)

	// DeleteDocument removes all chunks stored for the given document.
	DeleteDocument(ctx context.Context, documentID string) error

	// Persist saves the store's data to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error

	// Count returns the total number of chunks in the store.
	Count() int
}
