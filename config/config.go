package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	TransportStreamableHTTP = "streamable_http"
	TransportStdio          = "stdio"
)

// Config represents the MCP server configuration
type Config struct {
	Name          string        `json:"name"`
	Version       string        `json:"version"`
	Description   string        `json:"description"`
	Server        Server        `json:"server"`
	Logging       Logging       `json:"logging"`
	Warehouse     Warehouse     `json:"warehouse"`
	Tools         Tools         `json:"tools"`
	PromptCatalog PromptCatalog `json:"prompt_catalog"`
	Metrics       Metrics       `json:"metrics"`
}

// Server represents server configuration
type Server struct {
	Host                   string `json:"host"`
	Port                   int    `json:"port"`
	Debug                  bool   `json:"debug"`
	Transport              string `json:"transport"`
	MCPPath                string `json:"mcp_path"`
	Stateless              bool   `json:"stateless"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds"`
}

// Logging represents logging configuration
type Logging struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Path   string `json:"path"`
}

// Warehouse selects the SQL warehouse the catalog tools run against.
// Credentials are not stored here; they come from the ambient Databricks
// configuration (environment, profiles, OAuth).
type Warehouse struct {
	ID        string `json:"id"`
	Host      string `json:"host"`
	RequireID bool   `json:"require_id"`
	// LocalDSN points the tools at a local DuckDB database instead of
	// Databricks. An empty value keeps Databricks.
	LocalDSN string `json:"local_dsn"`
}

// Tools toggles optional tool registrations.
type Tools struct {
	MetadataTablesAlias bool `json:"metadata_tables_alias"`
}

// PromptCatalog represents prompt catalog runtime configuration.
type PromptCatalog struct {
	Enabled             bool     `json:"enabled"`
	Paths               []string `json:"paths"`
	AllowedRoots        []string `json:"allowed_roots"`
	Watch               bool     `json:"watch"`
	WatchDebounceMillis int      `json:"watch_debounce_millis"`
}

// Metrics controls the prometheus endpoint on the HTTP surface.
type Metrics struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Name:        "databricks-mcp-go",
		Version:     "0.1.0",
		Description: "MCP server for Databricks warehouse administration",
		Server: Server{
			Host:                   "0.0.0.0",
			Port:                   8000,
			Debug:                  false,
			Transport:              TransportStreamableHTTP,
			MCPPath:                "/mcp",
			Stateless:              false,
			ShutdownTimeoutSeconds: 10,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Warehouse: Warehouse{
			RequireID: true,
		},
		Tools: Tools{
			MetadataTablesAlias: true,
		},
		PromptCatalog: PromptCatalog{
			Enabled:             true,
			Paths:               []string{},
			AllowedRoots:        []string{},
			Watch:               false,
			WatchDebounceMillis: 250,
		},
		Metrics: Metrics{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// LoadConfig loads and validates the configuration. See Load.
func LoadConfig(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration from a file without validating it, so callers
// can apply further overrides first. An empty path skips the file and starts
// from defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Override with environment variables (highest priority).
	applyEnvOverrides(cfg)
	cfg.Normalize()

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and variables that are already set
// are left untouched.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to stat env file %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// SaveConfig writes cfg as indented JSON, creating parent directories.
func SaveConfig(cfg *Config, path string) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	cfg.Normalize()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if portStr := os.Getenv("MCP_PORT"); portStr != "" {
		setPort(cfg, "MCP_PORT", portStr)
	} else if portStr := os.Getenv("DATABRICKS_APP_PORT"); portStr != "" {
		setPort(cfg, "DATABRICKS_APP_PORT", portStr)
	}

	if host := os.Getenv("MCP_HOST"); host != "" {
		cfg.Server.Host = host
	}

	if path := os.Getenv("MCP_PATH"); path != "" {
		cfg.Server.MCPPath = path
	}

	setBool("MCP_DEBUG", &cfg.Server.Debug)

	var useStdio bool
	if setBool("MCP_USE_STDIO", &useStdio) && useStdio {
		cfg.Server.Transport = TransportStdio
	}

	if logLevel := os.Getenv("MCP_LOG_LEVEL"); logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("MCP_LOG_FORMAT"); logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	if logPath := os.Getenv("MCP_LOG_PATH"); logPath != "" {
		cfg.Logging.Path = logPath
	}

	if warehouseID := os.Getenv("DATABRICKS_WAREHOUSE_ID"); warehouseID != "" {
		cfg.Warehouse.ID = warehouseID
	}

	if host := os.Getenv("DATABRICKS_HOST"); host != "" {
		cfg.Warehouse.Host = host
	}

	if dsn := os.Getenv("MCP_WAREHOUSE_LOCAL_DSN"); dsn != "" {
		cfg.Warehouse.LocalDSN = dsn
	}

	setBool("MCP_REQUIRE_WAREHOUSE_ID", &cfg.Warehouse.RequireID)
	setBool("MCP_METADATA_TABLES_ALIAS", &cfg.Tools.MetadataTablesAlias)
	setBool("MCP_PROMPT_CATALOG_ENABLED", &cfg.PromptCatalog.Enabled)

	if promptCatalogPaths := os.Getenv("MCP_PROMPT_CATALOG_PATHS"); promptCatalogPaths != "" {
		cfg.PromptCatalog.Paths = parseCSV(promptCatalogPaths)
	}

	if promptCatalogAllowedRoots := os.Getenv("MCP_PROMPT_CATALOG_ALLOWED_ROOTS"); promptCatalogAllowedRoots != "" {
		cfg.PromptCatalog.AllowedRoots = parseCSV(promptCatalogAllowedRoots)
	}

	setBool("MCP_PROMPT_CATALOG_WATCH", &cfg.PromptCatalog.Watch)
	setBool("MCP_METRICS_ENABLED", &cfg.Metrics.Enabled)
}

func setPort(cfg *Config, name, raw string) {
	port, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("warning: ignoring invalid %s value %q: %v", name, raw, err)
		return
	}
	cfg.Server.Port = port
}

// setBool reports whether the variable was present and valid.
func setBool(name string, dst *bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return false
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("warning: ignoring invalid %s value %q: %v", name, raw, err)
		return false
	}
	*dst = parsed
	return true
}

// Normalize canonicalizes config values so downstream validation and runtime
// logic operate on stable representations.
func (c *Config) Normalize() {
	c.Server.Host = strings.TrimSpace(c.Server.Host)
	c.Server.Transport = strings.ToLower(strings.TrimSpace(c.Server.Transport))
	if c.Server.Transport == "" {
		c.Server.Transport = TransportStreamableHTTP
	}
	c.Server.MCPPath = strings.TrimSpace(c.Server.MCPPath)
	if c.Server.MCPPath == "" {
		c.Server.MCPPath = "/mcp"
	}
	if !strings.HasPrefix(c.Server.MCPPath, "/") {
		c.Server.MCPPath = "/" + c.Server.MCPPath
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		c.Server.ShutdownTimeoutSeconds = 10
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Path = strings.TrimSpace(c.Logging.Path)
	c.Warehouse.ID = strings.TrimSpace(c.Warehouse.ID)
	c.Warehouse.Host = strings.TrimSpace(c.Warehouse.Host)
	c.Warehouse.LocalDSN = strings.TrimSpace(c.Warehouse.LocalDSN)
	c.PromptCatalog.Paths = normalizePaths(c.PromptCatalog.Paths)
	c.PromptCatalog.AllowedRoots = normalizePaths(c.PromptCatalog.AllowedRoots)
	if c.PromptCatalog.WatchDebounceMillis <= 0 {
		c.PromptCatalog.WatchDebounceMillis = 250
	}
	c.Metrics.Path = strings.TrimSpace(c.Metrics.Path)
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid port number")
	}

	if c.Server.Host == "" {
		return errors.New("host cannot be empty")
	}

	switch c.Server.Transport {
	case TransportStreamableHTTP, TransportStdio:
	default:
		return fmt.Errorf("invalid transport type: %s", c.Server.Transport)
	}

	if c.Server.MCPPath == "/" {
		return errors.New("mcp path cannot be the root path")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return errors.New("invalid log level")
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return errors.New("invalid log format")
	}

	if c.Warehouse.RequireID && c.Warehouse.ID == "" {
		return errors.New("DATABRICKS_WAREHOUSE_ID must be set")
	}

	if c.PromptCatalog.WatchDebounceMillis > 60_000 {
		return fmt.Errorf(
			"invalid prompt catalog watch debounce %dms: expected at most 60000",
			c.PromptCatalog.WatchDebounceMillis,
		)
	}

	return nil
}

// DefaultPath is the config file looked up relative to the working directory.
const DefaultPath = "config/mcp_config.json"

// ResolveConfigPath returns the path that should be used for configuration.
// It returns an empty path when no config file exists, meaning defaults.
func ResolveConfigPath() (string, error) {
	if path := strings.TrimSpace(os.Getenv("MCP_CONFIG_PATH")); path != "" {
		return path, nil
	}

	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	path := filepath.Join(home, ".databricks-mcp", "mcp_config.json")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", nil
}

func parseCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
