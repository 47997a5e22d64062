package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/slighter12/databricks-mcp-go/metrics"
)

// Opener returns a fresh database handle for a single call. The client
// closes it before Exec returns.
type Opener func(ctx context.Context) (*sql.DB, error)

// Executor runs one SQL statement against the warehouse.
type Executor interface {
	Exec(ctx context.Context, statement string) error
}

type ClientConfig struct {
	Logger *slog.Logger
	Clock  clockwork.Clock
	Open   Opener
}

func (cfg *ClientConfig) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Clock == nil {
		return errors.New("clock is required")
	}
	if cfg.Open == nil {
		return errors.New("opener is required")
	}
	return nil
}

// Client executes statements on short-lived warehouse connections. It holds
// no connection between calls.
type Client struct {
	log   *slog.Logger
	clock clockwork.Clock
	open  Opener
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate warehouse client config: %w", err)
	}
	return &Client{
		log:   cfg.Logger,
		clock: cfg.Clock,
		open:  cfg.Open,
	}, nil
}

// Exec opens a connection, executes statement once and closes the
// connection again.
func (c *Client) Exec(ctx context.Context, statement string) (err error) {
	log := c.log.With("call_id", uuid.NewString())
	start := c.clock.Now()
	log.Debug("warehouse: executing statement", "statement", statement)

	defer func() {
		elapsed := c.clock.Since(start)
		metrics.WarehouseStatements.WithLabelValues(metrics.Outcome(err)).Inc()
		metrics.WarehouseStatementDuration.Observe(elapsed.Seconds())
		if err != nil {
			log.Warn("warehouse: statement failed", "duration", elapsed, "error", err)
			return
		}
		log.Info("warehouse: statement executed", "duration", elapsed)
	}()

	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, statement)
	return err
}
