package memory

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/gradtrack/gradtrack/internal/provider"
)

// Chunk represents a single piece of stored memory.
type Chunk struct {
	ID      string
	Content string
	Source  string
	Tags    string
	Score   float32
}

// Service provides high-level Remember/Recall operations for the memory
// system. If embedder is nil, all operations gracefully degrade to the
// lexical text path.
type Service struct {
	store    VectorStore
	embedder provider.Embedder
}

type textCapableStore interface {
	UpsertText(ctx context.Context, id string, payload map[string]interface{}) error
	SearchText(ctx context.Context, query string, limit int) ([]Result, error)
}

// NewService creates a new memory Service.
func NewService(store VectorStore, embedder provider.Embedder) *Service {
	return &Service{store: store, embedder: embedder}
}

// Remember embeds content and upserts it into the vector store.
// Returns the chunk ID. Gracefully degrades if embedder is nil.
func (m *Service) Remember(ctx context.Context, content, source, tags string) (string, error) {
	id := chunkID(source, content)

	if m.embedder == nil {
		if ts, ok := m.store.(textCapableStore); ok {
			err := ts.UpsertText(ctx, id, map[string]interface{}{
				"content": content,
				"source":  source,
				"tags":    tags,
			})
			if err != nil {
				return "", fmt.Errorf("upsert text-only chunk: %w", err)
			}
			return id, nil
		}
		return "", nil
	}

	resp, err := m.embedder.Embed(ctx, &provider.EmbeddingRequest{Input: content})
	if err != nil {
		return "", fmt.Errorf("embed content: %w", err)
	}

	err = m.store.Upsert(ctx, id, resp.Vector, map[string]interface{}{
		"content": content,
		"source":  source,
		"tags":    tags,
	})
	if err != nil {
		return "", fmt.Errorf("upsert chunk: %w", err)
	}

	return id, nil
}

// Recall finds the most relevant memory chunks for the given query.
// Gracefully degrades if embedder is nil or the query embedding fails.
func (m *Service) Recall(ctx context.Context, query string, limit int) ([]Chunk, error) {
	if limit <= 0 {
		limit = 5
	}

	if m.embedder == nil {
		return m.recallTextFallback(ctx, query, limit)
	}

	resp, err := m.embedder.Embed(ctx, &provider.EmbeddingRequest{Input: query})
	if err != nil {
		return m.recallTextFallback(ctx, query, limit)
	}

	results, err := m.store.Search(ctx, resp.Vector, limit)
	if err != nil {
		return m.recallTextFallback(ctx, query, limit)
	}

	return chunksFromResults(results), nil
}

func (m *Service) recallTextFallback(ctx context.Context, query string, limit int) ([]Chunk, error) {
	ts, ok := m.store.(textCapableStore)
	if !ok {
		return nil, nil
	}
	results, err := ts.SearchText(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("text fallback search: %w", err)
	}
	return chunksFromResults(results), nil
}

// RecallBySource recalls memory filtered by source prefix.
// Results are post-filtered to only include chunks matching sourcePrefix.
func (m *Service) RecallBySource(ctx context.Context, query, sourcePrefix string, limit int) ([]Chunk, error) {
	// Over-fetch to compensate for filtering.
	results, err := m.Recall(ctx, query, limit*3)
	if err != nil {
		return nil, err
	}

	var filtered []Chunk
	for _, c := range results {
		if strings.HasPrefix(c.Source, sourcePrefix) {
			filtered = append(filtered, c)
			if len(filtered) >= limit {
				break
			}
		}
	}
	return filtered, nil
}

// Stats reports the state of the memory store.
type Stats struct {
	Chunks    int  `json:"chunks"`
	Embedding bool `json:"embedding_enabled"`
}

// Stats returns chunk count and whether semantic recall is active.
func (m *Service) Stats(ctx context.Context) (*Stats, error) {
	n, err := m.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	return &Stats{Chunks: n, Embedding: m.embedder != nil}, nil
}

func chunksFromResults(results []Result) []Chunk {
	chunks := make([]Chunk, len(results))
	for i, r := range results {
		content, _ := r.Payload["content"].(string)
		source, _ := r.Payload["source"].(string)
		tags, _ := r.Payload["tags"].(string)
		chunks[i] = Chunk{
			ID:      r.ID,
			Content: content,
			Source:  source,
			Tags:    tags,
			Score:   r.Score,
		}
	}
	return chunks
}

// chunkID generates a deterministic ID from source and content.
func chunkID(source, content string) string {
	h := sha256.Sum256([]byte(source + ":" + content))
	return fmt.Sprintf("%x", h[:8])
}
