// Package postgres implements the repositories on top of a pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"posts-service/internal/repository"
)

// Options describes how to reach the Postgres server.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	// SSLMode is passed through as sslmode when set: disable, require, verify-ca or verify-full.
	SSLMode  string
	MaxConns int32
}

// DSN renders the options as a postgres:// connection URL.
func (o Options) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(o.User, o.Password),
		Host:   net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Path:   "/" + o.Database,
	}
	if o.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", o.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Open creates a connection pool for opts.
func Open(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	return Connect(ctx, opts.DSN(), opts.MaxConns)
}

// Connect creates a connection pool from a DSN. Every connection is pinged before it is
// handed out; a dead one is dropped and the pool dials a replacement.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	cfg.ConnConfig.StatementCacheCapacity = 256
	cfg.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		return conn.Ping(ctx) == nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// NewStore wires all postgres repositories onto pool.
func NewStore(pool *pgxpool.Pool) *repository.Store {
	return &repository.Store{
		Users: NewUserRepository(pool),
		Posts: NewPostRepository(pool),
		Votes: NewVoteRepository(pool),
		Ping:  pool.Ping,
		Close: pool.Close,
	}
}
