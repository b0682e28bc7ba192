package clickhouse

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/cenkalti/backoff/v4"
	"github.com/storepulse/storepulse/internal/config"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/logger"
)

const connectAttempts = 5

type ClickHouseStore struct {
	conn driver.Conn
}

// NewClickHouseStore opens a native connection and waits for the server to
// answer a ping, retrying with exponential backoff.
func NewClickHouseStore(ctx context.Context, cfg *config.Configuration, log *logger.Logger) (*ClickHouseStore, error) {
	options := &clickhouse.Options{
		Addr: []string{cfg.ClickHouse.Address},
		Auth: clickhouse.Auth{
			Database: cfg.ClickHouse.Database,
			Username: cfg.ClickHouse.Username,
			Password: cfg.ClickHouse.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
	}
	if cfg.ClickHouse.TLS {
		options.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open clickhouse connection").
			Mark(ierr.ErrConnectivity)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectAttempts), ctx)
	err = backoff.RetryNotify(func() error {
		return conn.Ping(ctx)
	}, policy, func(err error, wait time.Duration) {
		log.Warnw("clickhouse not reachable yet, retrying", "error", err, "retry_in", wait)
	})
	if err != nil {
		_ = conn.Close()
		return nil, ierr.WithError(err).
			WithHint("ClickHouse is not reachable").
			WithReportableDetails(map[string]interface{}{
				"address": cfg.ClickHouse.Address,
			}).
			Mark(ierr.ErrConnectivity)
	}

	log.Infow("connected to clickhouse", "address", cfg.ClickHouse.Address, "database", cfg.ClickHouse.Database)
	return &ClickHouseStore{conn: conn}, nil
}

func (s *ClickHouseStore) GetConn() driver.Conn {
	return s.conn
}

func (s *ClickHouseStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
