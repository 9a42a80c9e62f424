package rag

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-agent/internal/types"
)

// Entry is one embedded chunk of the fact store.
type Entry struct {
	ID     string         `json:"id"`
	Text   string         `json:"text"`
	Kind   types.FactKind `json:"kind"`
	Source string         `json:"source"`
	Vector []float32      `json:"vector"`
}

// Index is the persisted similarity index. It is rebuilt wholesale by
// setup; queries never mutate it.
type Index struct {
	Model     string    `json:"model"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	Entries   []Entry   `json:"entries"`
}

// Scored pairs an index entry with its query similarity.
type Scored struct {
	Entry Entry
	Score float64
}

// NewIndex creates an empty index stamped with its embedding backend.
// Queries against an index built by a different model are meaningless, so
// the stamp lets callers detect the mismatch.
func NewIndex(provider, model string) *Index {
	return &Index{
		Model:     model,
		Provider:  provider,
		CreatedAt: time.Now().UTC(),
	}
}

// Add appends an embedded chunk.
func (idx *Index) Add(text string, kind types.FactKind, source string, vector []float32) {
	idx.Entries = append(idx.Entries, Entry{
		ID:     uuid.NewString(),
		Text:   text,
		Kind:   kind,
		Source: source,
		Vector: vector,
	})
}

// Search returns the k entries most similar to the query vector, best
// first. Entries with zero vectors are skipped.
func (idx *Index) Search(queryVector []float32, k int) []Scored {
	if k <= 0 {
		return nil
	}

	scored := make([]Scored, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		score := CosineSimilarity(queryVector, entry.Vector)
		if math.IsNaN(score) {
			continue
		}
		scored = append(scored, Scored{Entry: entry, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Save writes the index as JSON via a temp file rename so a crash never
// leaves a truncated index behind.
func (idx *Index) Save(path string) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace index: %w", err)
	}
	return nil
}

// LoadIndex reads a persisted index.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", path, err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse index %s: %w", path, err)
	}
	return &idx, nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors yield NaN.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.NaN()
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return math.NaN()
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
