// Package chunker splits extracted document text into overlapping
// fixed-size windows, the unit of embedding and retrieval.
package chunker

const (
	// DefaultChunkSize is the window width in bytes.
	DefaultChunkSize = 1000
	// DefaultOverlap is how many bytes consecutive chunks share.
	DefaultOverlap = 200
)

// Split cuts text into overlapping chunks. Text no longer than chunkSize is
// returned as a single chunk. Otherwise a window of chunkSize bytes slides
// forward by chunkSize-overlap bytes per step, with a final partial window
// covering the tail. No chunk is ever empty.
func Split(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])

		start = start + chunkSize - overlap
		if start >= len(text) {
			break
		}
	}
	return chunks
}
