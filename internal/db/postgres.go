package db

import (
	"context"
	"fmt"
	"time"

	"carewatch/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultSearchPath = "carewatch,public"
	pingTimeout       = 5 * time.Second
)

// PoolConfig builds the pool settings from config. A search_path or
// application_name already in DATABASE_URL wins.
func PoolConfig(config *types.Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	params := poolConfig.ConnConfig.RuntimeParams
	if _, ok := params["search_path"]; !ok {
		params["search_path"] = defaultSearchPath
	}
	if _, ok := params["application_name"]; !ok && config.Environment != "" {
		params["application_name"] = "carewatch-" + config.Environment
	}

	if config.DatabaseMaxConns > 0 {
		poolConfig.MaxConns = config.DatabaseMaxConns
	}
	if config.DatabaseMinConns > 0 {
		poolConfig.MinConns = config.DatabaseMinConns
	}
	if config.DatabaseConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = config.DatabaseConnIdleTime
	}
	if config.DatabaseConnLifetime > 0 {
		poolConfig.MaxConnLifetime = config.DatabaseConnLifetime
	}

	return poolConfig, nil
}

func Connect(ctx context.Context, config *types.Config) (*pgxpool.Pool, error) {
	poolConfig, err := PoolConfig(config)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
