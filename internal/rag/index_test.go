package rag

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-agent/internal/config"
	"github.com/jonathan/cv-agent/internal/facts"
	"github.com/jonathan/cv-agent/internal/types"
)

// fakeEmbedder maps known substrings to fixed unit vectors so similarity
// ordering is deterministic.
type fakeEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (f *fakeEmbedder) embed(text string) []float32 {
	for key, vec := range f.vectors {
		if key != "" && strings.Contains(strings.ToLower(text), strings.ToLower(key)) {
			return vec
		}
	}
	return []float32{0, 0, 1}
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return nil, fmt.Errorf("embedding backend down")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.embed(t)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if f.fail {
		return nil, fmt.Errorf("embedding backend down")
	}
	return f.embed(text), nil
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.True(t, math.IsNaN(CosineSimilarity([]float32{1, 0}, []float32{1})))
	assert.True(t, math.IsNaN(CosineSimilarity([]float32{0, 0}, []float32{1, 0})))
	assert.True(t, math.IsNaN(CosineSimilarity(nil, nil)))
}

func TestIndexSearch_OrdersByScore(t *testing.T) {
	idx := NewIndex("openai", "test-model")
	idx.Add("go services", types.KindSkill, "skills.txt", []float32{1, 0, 0})
	idx.Add("kitchen recipes", types.KindProject, "notes.md", []float32{0, 1, 0})
	idx.Add("golang backend", types.KindExperience, "work.md", []float32{0.9, 0.1, 0})

	results := idx.Search([]float32{1, 0, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "go services", results[0].Entry.Text)
	assert.Equal(t, "golang backend", results[1].Entry.Text)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestIndexSearch_KLargerThanIndex(t *testing.T) {
	idx := NewIndex("openai", "test-model")
	idx.Add("only entry", types.KindSkill, "s", []float32{1, 0})

	results := idx.Search([]float32{1, 0}, 10)
	assert.Len(t, results, 1)
}

func TestIndexSearch_ZeroK(t *testing.T) {
	idx := NewIndex("openai", "test-model")
	idx.Add("entry", types.KindSkill, "s", []float32{1, 0})

	assert.Nil(t, idx.Search([]float32{1, 0}, 0))
}

func TestIndexSaveLoad_RoundTrip(t *testing.T) {
	idx := NewIndex("ollama", "nomic-embed-text")
	idx.Add("some chunk", types.KindExperience, "work.md", []float32{0.1, 0.2})

	path := filepath.Join(t.TempDir(), "rag_index.json")
	require.NoError(t, idx.Save(path))

	loaded, err := LoadIndex(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", loaded.Provider)
	assert.Equal(t, "nomic-embed-text", loaded.Model)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, idx.Entries[0].ID, loaded.Entries[0].ID)
	assert.Equal(t, idx.Entries[0].Vector, loaded.Entries[0].Vector)

	// no temp file left behind
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadIndex_Missing(t *testing.T) {
	_, err := LoadIndex(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func buildTestStore(t *testing.T) *facts.Store {
	t.Helper()
	cfg := config.Default()
	cfg.UsersDir = t.TempDir()
	paths := cfg.Paths("tester")
	require.NoError(t, os.MkdirAll(paths.CareerData, 0o755))
	personalInfo := `{"name": "Tester", "email": "t@example.com", "skills": ["Go"]}`
	require.NoError(t, os.WriteFile(paths.PersonalInfo, []byte(personalInfo), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(paths.CareerData, "work_experience.md"),
		[]byte("Built golang backend services at scale."), 0o644))
	return facts.NewStore(paths, nil)
}

func TestBuilder_Build(t *testing.T) {
	store := buildTestStore(t)
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"golang": {1, 0, 0},
	}}

	b := NewBuilder(embedder, NewChunker(1000, 200), "openai", "test-model", nil)
	idx, err := b.Build(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "test-model", idx.Model)
	require.Len(t, idx.Entries, 2)

	kinds := map[types.FactKind]bool{}
	for _, e := range idx.Entries {
		kinds[e.Kind] = true
		assert.NotEmpty(t, e.ID)
		assert.NotEmpty(t, e.Source)
	}
	assert.True(t, kinds[types.KindPersonalInfo])
	assert.True(t, kinds[types.KindExperience])
}

func TestBuilder_EmbedderFailure(t *testing.T) {
	store := buildTestStore(t)
	b := NewBuilder(&fakeEmbedder{fail: true}, NewChunker(1000, 200), "openai", "test-model", nil)

	_, err := b.Build(context.Background(), store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed")
}

func TestQuery(t *testing.T) {
	idx := NewIndex("openai", "test-model")
	idx.Add("golang backend work", types.KindExperience, "work.md", []float32{1, 0, 0})
	idx.Add("cooking classes", types.KindEducation, "education.md", []float32{0, 1, 0})

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"golang": {1, 0, 0},
	}}

	results, err := Query(context.Background(), embedder, idx, "golang engineer role", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "golang backend work", results[0].Entry.Text)
}
