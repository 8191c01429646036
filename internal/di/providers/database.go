package providers

import (
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/daveroberts0321/taleblock/internal/config"
	"github.com/daveroberts0321/taleblock/internal/logger"
	"github.com/daveroberts0321/taleblock/internal/store/sqlite"
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

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.Storage.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Storage.Path)

	return &StoreHandle{Store: db}, nil
}
