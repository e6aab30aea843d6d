package store

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kingshubham139/university-chat/internal/app"
)

// Postgres wraps the pgx pool plus the optional redis history cache.
type Postgres struct {
	pool  *pgxpool.Pool
	cache *RecentCache
	log   *slog.Logger
}

// NewPostgres connects to postgres and returns a pool wrapper
func NewPostgres(ctx context.Context, cfg app.Config, log *slog.Logger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.PGURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = int32(cfg.PGMaxConn)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	return &Postgres{pool: pool, log: log}, nil
}

// AttachCache enables the read-through cache for message history.
func (p *Postgres) AttachCache(c *RecentCache) { p.cache = c }

func (p *Postgres) Close() { p.pool.Close() }
