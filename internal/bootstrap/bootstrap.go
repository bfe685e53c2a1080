// Package bootstrap opens the configured store backend and its companions
// for the server and the admin CLI.
package bootstrap

import (
	"context"
	"fmt"

	"tasklists/internal/config"
	"tasklists/internal/db"
	"tasklists/internal/googlecloud"
	"tasklists/internal/logger"
	"tasklists/internal/migrations"
	"tasklists/internal/repository"
	"tasklists/internal/service"
	"tasklists/internal/store"
	"tasklists/internal/store/memstore"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend is an opened store. Pool and AuditRepo are set only for
// PostgreSQL.
type Backend struct {
	Name      string
	Store     store.Store
	Pool      *pgxpool.Pool
	AuditRepo service.AuditRepository

	closers []func()
}

func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// Open connects to cfg.StoreBackend. With migrate set the PostgreSQL schema
// is applied first.
func Open(ctx context.Context, cfg *config.Config, migrate bool) (*Backend, error) {
	b := &Backend{Name: cfg.StoreBackend}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		if migrate {
			if err := migrations.Apply(ctx, pool); err != nil {
				b.Close()
				return nil, err
			}
			logger.Info("migrations applied")
		}
		b.Pool = pool
		b.Store = repository.NewStore(pool)
		b.AuditRepo = repository.NewAuditRepository(pool)

	case config.BackendDatastore:
		client, err := googlecloud.NewClient(ctx, cfg.DatastoreProjectID)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.Store = googlecloud.NewStore(client)

	case config.BackendMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		b.Store = memstore.New()

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	logger.Info("store ready", "backend", b.Name)
	return b, nil
}
