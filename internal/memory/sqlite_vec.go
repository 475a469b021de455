package memory

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"
	"sort"
	"strings"
)

// maxSearchLimit caps how many chunks a single recall can return.
const maxSearchLimit = 20

// SQLiteVecStore implements VectorStore on the application's SQLite DB.
// Embeddings are stored as BLOBs (little-endian float32 arrays) in the
// memory_chunks table. Cosine similarity is computed in Go — at <10K chunks
// this is sub-millisecond. Ties are broken by insertion order (rowid), so
// equal-scoring chunks come back oldest first.
type SQLiteVecStore struct {
	db        *sql.DB
	dimension int
}

// NewSQLiteVecStore creates a new SQLiteVecStore with the given database
// connection and expected embedding dimension.
func NewSQLiteVecStore(db *sql.DB, dimension int) *SQLiteVecStore {
	return &SQLiteVecStore{db: db, dimension: dimension}
}

// Upsert stores or updates a memory chunk with its embedding.
func (s *SQLiteVecStore) Upsert(ctx context.Context, id string, vector []float32, payload map[string]interface{}) error {
	content, _ := payload["content"].(string)
	source, _ := payload["source"].(string)
	tags, _ := payload["tags"].(string)
	if source == "" {
		source = "user"
	}

	blob := encodeFloat32s(vector)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memory_chunks (id, content, embedding, source, tags)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			embedding = excluded.embedding,
			source = excluded.source,
			tags = excluded.tags,
			version = memory_chunks.version + 1,
			updated_at = CURRENT_TIMESTAMP
	`, id, content, blob, source, tags)
	return err
}

// UpsertText stores a chunk without an embedding. Used when no embedding
// provider is configured; SearchText can still find it.
func (s *SQLiteVecStore) UpsertText(ctx context.Context, id string, payload map[string]interface{}) error {
	content, _ := payload["content"].(string)
	source, _ := payload["source"].(string)
	tags, _ := payload["tags"].(string)
	if source == "" {
		source = "user"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memory_chunks (id, content, source, tags)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			source = excluded.source,
			tags = excluded.tags,
			version = memory_chunks.version + 1,
			updated_at = CURRENT_TIMESTAMP
	`, id, content, source, tags)
	return err
}

// Search finds the top-k most similar chunks by cosine similarity.
func (s *SQLiteVecStore) Search(ctx context.Context, vector []float32, limit int) ([]Result, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rowid, id, content, embedding, source, tags
		FROM memory_chunks
		WHERE embedding IS NOT NULL
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type scored struct {
		result Result
		score  float32
		seq    int64
	}

	var candidates []scored

	for rows.Next() {
		var seq int64
		var id, content, source, tags string
		var blob []byte

		if err := rows.Scan(&seq, &id, &content, &blob, &source, &tags); err != nil {
			continue
		}

		stored := decodeFloat32s(blob)
		if len(stored) != len(vector) {
			continue // dimension mismatch, skip
		}

		sim := cosineSimilarity(vector, stored)

		candidates = append(candidates, scored{
			result: Result{
				ID:    id,
				Score: sim,
				Payload: map[string]interface{}{
					"content": content,
					"source":  source,
					"tags":    tags,
				},
			},
			score: sim,
			seq:   seq,
		})
	}

	// Similarity descending, insertion order on ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].seq < candidates[j].seq
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = c.result
	}
	return results, nil
}

// SearchText finds chunks by keyword overlap with the query. Score is the
// fraction of query words appearing in the chunk content.
func (s *SQLiteVecStore) SearchText(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rowid, id, content, source, tags
		FROM memory_chunks
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type scored struct {
		result Result
		score  float32
		seq    int64
	}
	var candidates []scored

	for rows.Next() {
		var seq int64
		var id, content, source, tags string
		if err := rows.Scan(&seq, &id, &content, &source, &tags); err != nil {
			continue
		}

		lower := strings.ToLower(content)
		hits := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}

		score := float32(hits) / float32(len(words))
		candidates = append(candidates, scored{
			result: Result{
				ID:    id,
				Score: score,
				Payload: map[string]interface{}{
					"content": content,
					"source":  source,
					"tags":    tags,
				},
			},
			score: score,
			seq:   seq,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].seq < candidates[j].seq
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = c.result
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (s *SQLiteVecStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memory_chunks`).Scan(&n)
	return n, err
}

// encodeFloat32s converts a float32 slice to little-endian bytes.
func encodeFloat32s(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeFloat32s converts little-endian bytes back to a float32 slice.
func decodeFloat32s(b []byte) []float32 {
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

// cosineSimilarity computes the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return float32(dot / denom)
}
