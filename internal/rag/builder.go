package rag

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jonathan/cv-agent/internal/facts"
)

// embedBatchSize bounds how many chunks go to the embedding API per call.
const embedBatchSize = 64

// Builder constructs the similarity index from the fact store.
type Builder struct {
	embedder Embedder
	chunker  *Chunker
	logger   *slog.Logger
	provider string
	model    string
}

// NewBuilder creates a Builder.
func NewBuilder(embedder Embedder, chunker *Chunker, provider, model string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		embedder: embedder,
		chunker:  chunker,
		logger:   logger,
		provider: provider,
		model:    model,
	}
}

// Build chunks and embeds every document in the fact store and returns a
// fresh index.
func (b *Builder) Build(ctx context.Context, store *facts.Store) (*Index, error) {
	docs, err := store.Documents()
	if err != nil {
		return nil, fmt.Errorf("failed to load fact store documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("fact store is empty, nothing to index")
	}

	idx := NewIndex(b.provider, b.model)

	type pending struct {
		doc   facts.Document
		chunk string
	}
	var batch []pending

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.chunk
		}
		vectors, err := b.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed chunks: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(batch))
		}
		for i, p := range batch {
			idx.Add(p.chunk, p.doc.Kind, filepath.Base(p.doc.Path), vectors[i])
		}
		batch = batch[:0]
		return nil
	}

	for _, doc := range docs {
		chunks := b.chunker.Chunk(doc.Content)
		b.logger.Debug("chunked document", "path", doc.Path, "kind", doc.Kind, "chunks", len(chunks))
		for _, chunk := range chunks {
			batch = append(batch, pending{doc: doc, chunk: chunk})
			if len(batch) >= embedBatchSize {
				if err := flush(); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	b.logger.Info("built similarity index", "entries", len(idx.Entries), "documents", len(docs), "model", b.model)
	return idx, nil
}

// Query embeds the query text and searches the index.
func Query(ctx context.Context, embedder Embedder, idx *Index, query string, k int) ([]Scored, error) {
	vector, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return idx.Search(vector, k), nil
}
