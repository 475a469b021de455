// Package memory implements the agent's long-term memory: embedded chunks
// stored in SQLite with cosine-similarity recall, and a lexical fallback
// when no embedding provider is configured.
package memory

import "context"

type VectorStore interface {
	// Upsert stores a text with its embedding and metadata.
	Upsert(ctx context.Context, id string, vector []float32, payload map[string]interface{}) error

	// Search finds the most similar items.
	Search(ctx context.Context, vector []float32, limit int) ([]Result, error)

	// Count returns the number of stored items.
	Count(ctx context.Context) (int, error)
}

type Result struct {
	ID      string                 `json:"id"`
	Score   float32                `json:"score"`
	Payload map[string]interface{} `json:"payload"`
}
