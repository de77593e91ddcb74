package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolportal/internal/config"
	"github.com/yigit/schoolportal/internal/pkg/logger"
)

const (
	applicationName = "school-portal"
	connectTimeout  = 10 * time.Second
	txTimeout       = 15 * time.Second
)

// PostgresDB holds the pool backing the postgres session store.
type PostgresDB struct {
	Pool *pgxpool.Pool
}

// PoolConfig derives the pgxpool settings from the database section.
func PoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing database settings: %w", err)
	}
	pc.ConnConfig.RuntimeParams["application_name"] = applicationName

	dbc := cfg.Database
	if dbc.MaxOpenConns > 0 {
		pc.MaxConns = int32(dbc.MaxOpenConns)
	}
	if dbc.MaxIdleConns > 0 {
		pc.MinConns = int32(dbc.MaxIdleConns)
	}
	if dbc.ConnMaxLifetime != "" {
		if pc.MaxConnLifetime, err = time.ParseDuration(dbc.ConnMaxLifetime); err != nil {
			return nil, fmt.Errorf("invalid conn_max_lifetime %q: %w", dbc.ConnMaxLifetime, err)
		}
	}

	// Sessions sit idle between page loads; drop connections the server closed.
	lgr := logger.Component("db")
	pc.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Discarding dead connection")
			return false
		}
		return true
	}
	return pc, nil
}

// NewPostgresDB opens the pool and checks that the server answers.
func NewPostgresDB(ctx context.Context, cfg *config.Config) (*PostgresDB, error) {
	pc, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("session database %s:%s unreachable: %w", cfg.Database.Host, cfg.Database.Port, err)
	}
	return &PostgresDB{Pool: pool}, nil
}

// Close closes the pool.
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// InTx runs fn inside a transaction and commits when fn returns nil. A
// context without a deadline gets a short one so a stuck row lock cannot
// hold a request forever.
func (db *PostgresDB) InTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, txTimeout)
		defer cancel()
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
