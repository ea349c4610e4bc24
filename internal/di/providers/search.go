package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/kaizenhub/kaizenhub-server/internal/config"
	"github.com/kaizenhub/kaizenhub-server/internal/logger"
	"github.com/kaizenhub/kaizenhub-server/internal/search"
	"github.com/kaizenhub/kaizenhub-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the full-text search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	idx, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: idx}, nil
}

// ProvideSearchService provides the search service and wires it into the store
// so that submission writes keep the index current.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	idx := do.MustInvoke[*SearchIndexHandle](i)
	st := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(idx.Index, st.Store, log.Logger)
	st.SetSearchIndexer(svc)

	return svc, nil
}

// ReindexIfEmpty rebuilds the search index from the database when the index
// holds no documents, which happens on first boot or after a schema bump
// discards the old index.
func ReindexIfEmpty(i do.Injector) error {
	idx := do.MustInvoke[*SearchIndexHandle](i)
	svc := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	count, err := idx.DocumentCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	indexed, err := svc.ReindexAll(context.Background())
	if err != nil {
		return err
	}
	if indexed > 0 {
		log.Info("Search index rebuilt", "documents", indexed)
	}

	return nil
}
