package providers

import (
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/kaizenhub/kaizenhub-server/internal/config"
	"github.com/kaizenhub/kaizenhub-server/internal/logger"
	"github.com/kaizenhub/kaizenhub-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.BasePath, 0o750); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cfg.Data.BasePath, "kaizenhub.db")
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}
