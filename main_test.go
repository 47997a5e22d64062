package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slighter12/databricks-mcp-go/config"
)

// isolateEnv points config discovery at an empty directory.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"MCP_CONFIG_PATH", "MCP_PORT", "DATABRICKS_APP_PORT", "MCP_USE_STDIO", "MCP_DEBUG",
		"MCP_LOG_LEVEL", "DATABRICKS_WAREHOUSE_ID", "MCP_REQUIRE_WAREHOUSE_ID",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "databricks-mcp-go version dev (commit: none, built: unknown)\n", out.String())
}

func TestRootCmd_FailsWithoutWarehouseID(t *testing.T) {
	isolateEnv(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "DATABRICKS_WAREHOUSE_ID must be set")
}

func TestLoadConfig_DotEnvAndFlags(t *testing.T) {
	dir := isolateEnv(t)
	envFile := filepath.Join(dir, "local.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DATABRICKS_WAREHOUSE_ID=abc123\nDATABRICKS_APP_PORT=9001\n"), 0644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--env-file", envFile, "--transport", "STDIO", "--verbose"}))

	opts := &rootOptions{}
	opts.envFiles, _ = cmd.Flags().GetStringSlice("env-file")
	opts.transport, _ = cmd.Flags().GetString("transport")
	opts.verbose, _ = cmd.Flags().GetBool("verbose")

	cfg, err := loadConfig(opts)
	require.NoError(t, err)
	require.Equal(t, "abc123", cfg.Warehouse.ID)
	require.Equal(t, 9001, cfg.Server.Port)
	require.Equal(t, config.TransportStdio, cfg.Server.Transport)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_ExplicitConfigFile(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"host":"127.0.0.1","port":8123},"warehouse":{"id":"from-file"}}`), 0644))

	cfg, err := loadConfig(&rootOptions{configPath: path})
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 8123, cfg.Server.Port)
	require.Equal(t, "from-file", cfg.Warehouse.ID)

	_, err = loadConfig(&rootOptions{configPath: path, transport: "grpc"})
	require.ErrorContains(t, err, "invalid transport type")
}

func TestLoadConfig_FlagsOverrideInvalidFileBeforeValidation(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"transport":"grpc"},"warehouse":{"id":"from-file"}}`), 0644))

	_, err := loadConfig(&rootOptions{configPath: path})
	require.ErrorContains(t, err, "invalid transport type")

	cfg, err := loadConfig(&rootOptions{configPath: path, transport: "stdio"})
	require.NoError(t, err)
	require.Equal(t, config.TransportStdio, cfg.Server.Transport)
	require.Equal(t, "from-file", cfg.Warehouse.ID)
}

func TestConfigInitCmd(t *testing.T) {
	dir := isolateEnv(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), config.DefaultPath)

	cfg, err := config.Load(filepath.Join(dir, config.DefaultPath))
	require.NoError(t, err)
	require.Equal(t, config.NewConfig().Server.Port, cfg.Server.Port)
	require.Empty(t, cfg.Warehouse.ID)

	cmd = newRootCmd()
	cmd.SetArgs([]string{"config", "init"})
	require.ErrorContains(t, cmd.Execute(), "already exists")

	custom := filepath.Join(dir, "nested", "custom.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(custom), 0755))
	require.NoError(t, os.WriteFile(custom, []byte(`{}`), 0644))
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", custom, "--force"})
	require.NoError(t, cmd.Execute())

	cfg, err = config.Load(custom)
	require.NoError(t, err)
	require.Equal(t, config.NewConfig().Name, cfg.Name)
}
