package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gradtrack/gradtrack/internal/provider"
)

// fakeEmbedder returns a fixed vector for any input.
type fakeEmbedder struct {
	vector []float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, req *provider.EmbeddingRequest) (*provider.EmbeddingResponse, error) {
	return &provider.EmbeddingResponse{Vector: f.vector}, nil
}

type failingEmbedder struct{}

func (f *failingEmbedder) Embed(ctx context.Context, req *provider.EmbeddingRequest) (*provider.EmbeddingResponse, error) {
	return nil, errors.New("embed failed")
}

type fakeVectorStore struct {
	upsertErr error
	searchErr error
	results   []Result
}

func (f *fakeVectorStore) Upsert(ctx context.Context, id string, vector []float32, payload map[string]interface{}) error {
	return f.upsertErr
}
func (f *fakeVectorStore) Search(ctx context.Context, vector []float32, limit int) ([]Result, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}
func (f *fakeVectorStore) Count(ctx context.Context) (int, error) { return len(f.results), nil }

type fakeTextStore struct {
	fakeVectorStore
	upsertTextErr error
	searchTextErr error
	textResults   []Result
}

func (f *fakeTextStore) UpsertText(ctx context.Context, id string, payload map[string]interface{}) error {
	return f.upsertTextErr
}
func (f *fakeTextStore) SearchText(ctx context.Context, query string, limit int) ([]Result, error) {
	if f.searchTextErr != nil {
		return nil, f.searchTextErr
	}
	return f.textResults, nil
}

func TestService_RememberAndRecall(t *testing.T) {
	db := setupTestDB(t)

	store := NewSQLiteVecStore(db, 3)
	emb := &fakeEmbedder{vector: []float32{1, 0, 0}}
	svc := NewService(store, emb)
	ctx := context.Background()

	id, err := svc.Remember(ctx, "User prefers PhD programs on the west coast", "user", "prefs")
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("expected non-empty ID")
	}

	chunks, err := svc.Recall(ctx, "preferences", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "User prefers PhD programs on the west coast" {
		t.Errorf("unexpected content: %q", chunks[0].Content)
	}
	if chunks[0].Source != "user" {
		t.Errorf("unexpected source: %q", chunks[0].Source)
	}
}

func TestService_NilEmbedder(t *testing.T) {
	db := setupTestDB(t)
	store := NewSQLiteVecStore(db, 3)
	svc := NewService(store, nil)
	ctx := context.Background()

	// Remember should still persist via text-only fallback.
	id, err := svc.Remember(ctx, "deadline reminder", "user", "")
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Errorf("expected non-empty ID with text fallback")
	}

	chunks, err := svc.Recall(ctx, "deadline", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 fallback chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "deadline reminder" {
		t.Fatalf("unexpected fallback content: %q", chunks[0].Content)
	}
}

func TestService_EmbedErrorFallsBackToTextSearch(t *testing.T) {
	db := setupTestDB(t)
	store := NewSQLiteVecStore(db, 3)
	svc := NewService(store, &failingEmbedder{})
	ctx := context.Background()

	// Pre-store via text-only path first.
	ts := NewService(store, nil)
	if _, err := ts.Remember(ctx, "GRE retake plan", "user", ""); err != nil {
		t.Fatal(err)
	}

	chunks, err := svc.Recall(ctx, "GRE", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected lexical fallback result, got %d", len(chunks))
	}
}

func TestService_RememberErrorPaths(t *testing.T) {
	ctx := context.Background()

	svc := NewService(&fakeVectorStore{}, nil)
	id, err := svc.Remember(ctx, "a", "user", "")
	if err != nil || id != "" {
		t.Fatalf("expected graceful no-op for nil embedder + non-text store, got id=%q err=%v", id, err)
	}

	svc = NewService(&fakeTextStore{upsertTextErr: errors.New("x")}, nil)
	if _, err := svc.Remember(ctx, "a", "user", ""); err == nil {
		t.Fatal("expected upsert text error")
	}

	svc = NewService(&fakeVectorStore{upsertErr: errors.New("x")}, &fakeEmbedder{vector: []float32{1}})
	if _, err := svc.Remember(ctx, "a", "user", ""); err == nil {
		t.Fatal("expected vector upsert error")
	}

	svc = NewService(&fakeVectorStore{}, &failingEmbedder{})
	if _, err := svc.Remember(ctx, "a", "user", ""); err == nil {
		t.Fatal("expected embed error")
	}
}

func TestService_RecallFallbackBranches(t *testing.T) {
	ctx := context.Background()

	// No text-capable fallback path.
	svc := NewService(&fakeVectorStore{}, nil)
	chunks, err := svc.Recall(ctx, "q", 0)
	if err != nil {
		t.Fatal(err)
	}
	if chunks != nil {
		t.Fatalf("expected nil without fallback store, got %+v", chunks)
	}

	// Text fallback error path.
	svc = NewService(&fakeTextStore{searchTextErr: errors.New("boom")}, nil)
	if _, err := svc.Recall(ctx, "q", 5); err == nil {
		t.Fatal("expected text fallback error")
	}

	// Vector search error -> text fallback.
	svc = NewService(&fakeTextStore{
		fakeVectorStore: fakeVectorStore{searchErr: errors.New("vector failed")},
		textResults: []Result{{
			ID:    "x",
			Score: 1,
			Payload: map[string]interface{}{
				"content": "fallback",
				"source":  "user",
				"tags":    "",
			},
		}},
	}, &fakeEmbedder{vector: []float32{1}})
	chunks, err = svc.Recall(ctx, "q", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || chunks[0].Content != "fallback" {
		t.Fatalf("expected vector-error fallback result, got %+v", chunks)
	}
}

func TestService_RecallBySource(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeTextStore{
		textResults: []Result{
			{ID: "1", Score: 1, Payload: map[string]interface{}{"content": "a", "source": "conversation:chat", "tags": ""}},
			{ID: "2", Score: 1, Payload: map[string]interface{}{"content": "b", "source": "email:import", "tags": ""}},
			{ID: "3", Score: 1, Payload: map[string]interface{}{"content": "c", "source": "conversation:api", "tags": ""}},
		},
	}, nil)

	results, err := svc.RecallBySource(ctx, "q", "conversation:", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected filtered limit 2, got %d", len(results))
	}
	for _, r := range results {
		if !strings.HasPrefix(r.Source, "conversation:") {
			t.Fatalf("unexpected filtered source: %s", r.Source)
		}
	}
}

func TestService_Stats(t *testing.T) {
	db := setupTestDB(t)
	store := NewSQLiteVecStore(db, 3)
	ctx := context.Background()

	svc := NewService(store, &fakeEmbedder{vector: []float32{1, 0, 0}})
	svc.Remember(ctx, "note one", "user", "")
	svc.Remember(ctx, "note two", "user", "")

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Chunks != 2 {
		t.Errorf("chunks = %d, want 2", stats.Chunks)
	}
	if !stats.Embedding {
		t.Error("expected embedding enabled")
	}

	degraded := NewService(store, nil)
	stats, _ = degraded.Stats(ctx)
	if stats.Embedding {
		t.Error("expected embedding disabled without embedder")
	}
}

func TestChunkID_Deterministic(t *testing.T) {
	id1 := chunkID("user", "hello")
	id2 := chunkID("user", "hello")
	if id1 != id2 {
		t.Errorf("expected same ID, got %q and %q", id1, id2)
	}

	id3 := chunkID("user", "world")
	if id1 == id3 {
		t.Error("expected different IDs for different content")
	}
}
