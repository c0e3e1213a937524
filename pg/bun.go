// Package pg opens the PostgreSQL connection used by the entity repositories.
//
// It builds a pgx pool, wraps it in a bun.DB, classifies PostgreSQL errors and
// provides a base model with automatic timestamps. Queries are traced through bunotel.
package pg

import (
	"context"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bunotel"

	"github.com/rise-and-shine/eventhub/logger"
	"github.com/rise-and-shine/eventhub/meta"
	"github.com/rise-and-shine/eventhub/pg/hooks"
)

// NewBunDB connects to PostgreSQL and checks that the server is reachable.
func NewBunDB(ctx context.Context, cfg Config) (*bun.DB, error) {
	pool, err := newPool(ctx, cfg)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	db := bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())
	db.AddQueryHook(hooks.NewQueryLogHook(
		logger.Named("pg"),
		hooks.WithAllQueries(cfg.LogQueries),
		hooks.WithSlowQueryThreshold(cfg.SlowQueryThreshold),
	))
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(cfg.Database)))

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"host": cfg.Host, "database": cfg.Database}))
	}

	return db, nil
}

func newPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, errx.Wrap(err)
	}

	poolCfg.MaxConns = cfg.Pool.MaxConns
	poolCfg.MinConns = cfg.Pool.MinConns
	poolCfg.MaxConnLifetime = cfg.Pool.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxConnIdleTime
	if name := meta.Service().Name; name != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = name
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return pool, nil
}
