package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jonathan/cv-agent/internal/facts"
	"github.com/jonathan/cv-agent/internal/rag"
	"github.com/jonathan/cv-agent/internal/types"
)

// ErrEmptyDescription reports a job with no description text. There is
// nothing to retrieve context against, so the run skips generation.
var ErrEmptyDescription = errors.New("job description is empty")

// Retriever builds the context bundle for a job. It prefers similarity
// search over the persisted index and degrades to a direct fact store scan
// when the index or embedder is unavailable.
type Retriever struct {
	embedder rag.Embedder
	index    *rag.Index
	store    *facts.Store
	topK     int
	logger   *slog.Logger
}

// New creates a Retriever. Either embedder or index may be nil; retrieval
// then always takes the fallback path.
func New(embedder rag.Embedder, index *rag.Index, store *facts.Store, topK int, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		store:    store,
		topK:     topK,
		logger:   logger,
	}
}

// Retrieve returns the context bundle for a job. Degradations end in the
// direct-scan fallback; an error means either an empty job description or
// a fact store that cannot be read at all.
func (r *Retriever) Retrieve(ctx context.Context, job types.JobInfo) (*types.ContextBundle, error) {
	if strings.TrimSpace(job.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if r.embedder == nil || r.index == nil || len(r.index.Entries) == 0 {
		r.logger.Debug("no similarity index available, scanning fact store directly")
		return r.fallbackScan()
	}

	query := BuildQuery(job)
	results, err := rag.Query(ctx, r.embedder, r.index, query, r.topK)
	if err != nil {
		r.logger.Warn("similarity search failed, scanning fact store directly", "error", err)
		return r.fallbackScan()
	}

	bundle := &types.ContextBundle{}
	for _, res := range results {
		bundle.Add(res.Entry.Kind, types.ContextItem{
			Content: res.Entry.Text,
			Source:  res.Entry.Source,
			Score:   res.Score,
		})
	}

	if bundle.IsEmpty() {
		r.logger.Warn("similarity search returned nothing, scanning fact store directly")
		return r.fallbackScan()
	}
	return bundle, nil
}

// fallbackScan loads the whole fact store without ranking. The bundle is
// marked so consumers know relevance filtering did not happen.
func (r *Retriever) fallbackScan() (*types.ContextBundle, error) {
	bundle := &types.ContextBundle{Fallback: true}

	records, err := r.store.Records()
	if err != nil {
		return nil, err
	}
	for i := range records {
		bundle.Add(records[i].Kind, types.ContextItem{
			Record: &records[i],
			Source: records[i].Source,
		})
	}

	docs, err := r.store.Documents()
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.Kind == types.KindPersonalInfo {
			// already covered by the structured records
			continue
		}
		bundle.Add(doc.Kind, types.ContextItem{
			Content: doc.Content,
			Source:  doc.Path,
		})
	}

	return bundle, nil
}
