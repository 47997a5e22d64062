package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/databricks/databricks-sdk-go/config"
	dbsql "github.com/databricks/databricks-sql-go"
)

const (
	DefaultPort      = 443
	defaultUserAgent = "databricks-mcp-go"
)

// DatabricksConfig identifies the SQL warehouse. Host overrides the host
// resolved from the ambient Databricks configuration when set.
type DatabricksConfig struct {
	Host        string
	WarehouseID string
}

// HTTPPath returns the SQL endpoint path of a warehouse.
func HTTPPath(warehouseID string) string {
	return "/sql/1.0/warehouses/" + warehouseID
}

// sdkAuthenticator signs driver requests with the credentials resolved by the
// SDK config.
type sdkAuthenticator struct {
	cfg *config.Config
}

func (a sdkAuthenticator) Authenticate(r *http.Request) error {
	return a.cfg.Authenticate(r)
}

// NewDatabricksOpener returns an Opener that builds a new Databricks SQL
// connector on every call. Credentials are resolved on first use and
// resolution errors are returned from the Opener.
func NewDatabricksOpener(cfg DatabricksConfig, creds *config.Config) Opener {
	if creds == nil {
		creds = &config.Config{}
	}
	if cfg.Host != "" && creds.Host == "" {
		creds.Host = cfg.Host
	}

	return func(ctx context.Context) (*sql.DB, error) {
		if err := creds.EnsureResolved(); err != nil {
			return nil, fmt.Errorf("failed to resolve databricks config: %w", err)
		}
		hostname := ServerHostname(creds.Host)
		if hostname == "" {
			return nil, errors.New("databricks host is not configured")
		}

		connector, err := dbsql.NewConnector(
			dbsql.WithServerHostname(hostname),
			dbsql.WithPort(DefaultPort),
			dbsql.WithHTTPPath(HTTPPath(cfg.WarehouseID)),
			dbsql.WithAuthenticator(sdkAuthenticator{cfg: creds}),
			dbsql.WithUserAgentEntry(defaultUserAgent),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create databricks connector: %w", err)
		}
		return sql.OpenDB(connector), nil
	}
}

// ServerHostname strips scheme and trailing slashes from a workspace host.
func ServerHostname(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimRight(host, "/")
}
