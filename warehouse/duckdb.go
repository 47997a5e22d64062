package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/duckdb/duckdb-go/v2"
)

// NewDuckDBOpener returns an Opener backed by a local DuckDB database, for
// running the server without a Databricks workspace. An empty dsn is an
// in-memory database that only lives for one call.
func NewDuckDBOpener(dsn string) Opener {
	return func(ctx context.Context) (*sql.DB, error) {
		connector, err := duckdb.NewConnector(dsn, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create duckdb connector: %w", err)
		}
		return sql.OpenDB(connector), nil
	}
}
