package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"catalog-admin/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service wraps the process-wide connection pool. The pool is opened
// lazily, exactly once, and reused for the lifetime of the process.
type Service struct {
	db *sql.DB
}

var (
	instance *Service
	once     sync.Once
	initErr  error
)

// New returns the process-wide database service, opening the pool on the
// first call.
func New(cfg config.DatabaseConfig) (*Service, error) {
	once.Do(func() {
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.Schema,
		)

		db, err := sql.Open("pgx", dsn)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			return
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		instance = &Service{db: db}
	})

	return instance, initErr
}

// DB exposes the underlying pool for repositories
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health reports pool status and reachability of the database
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	health := map[string]string{"status": "ok"}

	if err := s.db.PingContext(ctx); err != nil {
		health["status"] = "down"
		health["error"] = err.Error()
		return health
	}

	stats := s.db.Stats()
	health["open_connections"] = fmt.Sprintf("%d", stats.OpenConnections)
	health["in_use"] = fmt.Sprintf("%d", stats.InUse)
	health["idle"] = fmt.Sprintf("%d", stats.Idle)

	return health
}

// Close shuts the pool down; only called on process exit
func (s *Service) Close() error {
	return s.db.Close()
}
