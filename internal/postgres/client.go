package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/storepulse/storepulse/internal/config"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/logger"
)

const connectAttempts = 5

// Client wraps the lib/pq backed connection pool.
type Client struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewClient opens the pool and waits for postgres to accept connections.
func NewClient(ctx context.Context, cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	db, err := sql.Open("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open postgres connection").
			Mark(ierr.ErrConnectivity)
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetimeMinutes) * time.Minute)

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectAttempts), ctx)
	err = backoff.RetryNotify(func() error {
		return db.PingContext(ctx)
	}, policy, func(err error, wait time.Duration) {
		log.Warnw("postgres not reachable yet, retrying", "error", err, "retry_in", wait)
	})
	if err != nil {
		_ = db.Close()
		return nil, ierr.WithError(err).
			WithHint("Postgres is not reachable").
			WithReportableDetails(map[string]interface{}{
				"host":   cfg.Postgres.Host,
				"port":   cfg.Postgres.Port,
				"dbname": cfg.Postgres.DBName,
			}).
			Mark(ierr.ErrConnectivity)
	}

	log.Infow("connected to postgres", "host", cfg.Postgres.Host, "dbname", cfg.Postgres.DBName)
	return &Client{db: db, logger: log}, nil
}

// NewClientFromDB wraps an existing pool.
func NewClientFromDB(db *sql.DB, log *logger.Logger) *Client {
	return &Client{db: db, logger: log}
}

func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) Close() error {
	return c.db.Close()
}
