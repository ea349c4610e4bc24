package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/search"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// SearchService wraps the full-text index and adapts it to the store's
// SearchIndexer interface so write paths can keep the index current.
type SearchService struct {
	index  *search.Index
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.Index, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{index: index, store: store, logger: logger}
}

// IndexSubmission adds or updates a submission in the search index.
func (s *SearchService) IndexSubmission(_ context.Context, sub *domain.Submission) error {
	return s.index.IndexDocument(search.SubmissionToDocument(sub))
}

// DeleteSubmission removes a submission from the search index.
func (s *SearchService) DeleteSubmission(_ context.Context, submissionID string) error {
	return s.index.DeleteDocument(submissionID)
}

// Search runs a full-text query over practice submissions.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	return s.index.Search(ctx, params)
}

// ReindexAll rebuilds the index from the store. Used at startup when the
// index mapping version changed, and exposed for manual recovery.
func (s *SearchService) ReindexAll(ctx context.Context) (int, error) {
	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	subs, err := s.store.ListAllSubmissions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list submissions: %w", err)
	}

	docs := make([]*search.PracticeDocument, 0, len(subs))
	for _, sub := range subs {
		docs = append(docs, search.SubmissionToDocument(sub))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return 0, fmt.Errorf("index submissions: %w", err)
	}

	s.logger.Info("search index rebuilt", "documents", len(docs))

	return len(docs), nil
}
