package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_SetsExpectedValues(t *testing.T) {
	t.Parallel()

	cfg := Defaults()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8320, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "https://graph.microsoft.com/v1.0", cfg.Graph.BaseURL)
	assert.Equal(t, []string{"https://graph.microsoft.com/.default"}, cfg.Graph.Scopes)
}

func TestLoadFromFile_ParsesYAML(t *testing.T) {
	t.Parallel()

	content := `
server:
  host: "127.0.0.1"
  port: 9000
  log_level: "debug"

graph:
  tenant_id: "tenant-1"
  client_id: "client-1"
  client_secret: "secret-1"

planner:
  default_plan_id: "plan-1"
  default_bucket_id: "bucket-1"

api:
  token: "api-token"
`

	tmpFile := filepath.Join(t.TempDir(), "graphdesk.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadFromFile(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "tenant-1", cfg.Graph.TenantID)
	assert.Equal(t, "plan-1", cfg.Planner.DefaultPlanID)
	assert.Equal(t, "bucket-1", cfg.Planner.DefaultBucketID)
	assert.Equal(t, "api-token", cfg.API.Token)
	// Defaults survive a partial file
	assert.Equal(t, "https://graph.microsoft.com/v1.0", cfg.Graph.BaseURL)
}

func TestLoadFromFile_ExpandsEnvVars(t *testing.T) {
	t.Setenv("GRAPHDESK_TEST_SECRET", "super-secret-value")

	content := `
graph:
  tenant_id: "tenant-1"
  client_id: "client-1"
  client_secret: "${GRAPHDESK_TEST_SECRET}"
`
	tmpFile := filepath.Join(t.TempDir(), "graphdesk.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadFromFile(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "super-secret-value", cfg.Graph.ClientSecret)
}

func TestLoadFromFile_WhenCredentialsMissing_Fails(t *testing.T) {
	t.Parallel()

	content := `
server:
  port: 9000
`
	tmpFile := filepath.Join(t.TempDir(), "graphdesk.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	_, err := LoadFromFile(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph.tenant_id")
}

func TestLoadFromFile_WhenPortInvalid_Fails(t *testing.T) {
	t.Parallel()

	content := `
server:
  port: 99999

graph:
  tenant_id: "tenant-1"
  client_id: "client-1"
  client_secret: "secret-1"
`
	tmpFile := filepath.Join(t.TempDir(), "graphdesk.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	_, err := LoadFromFile(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestEnvOverrides_TakePriorityOverFile(t *testing.T) {
	t.Setenv("GRAPH_TENANT_ID", "env-tenant")
	t.Setenv("GRAPH_CLIENT_ID", "env-client")
	t.Setenv("GRAPH_CLIENT_SECRET", "env-secret")
	t.Setenv("GRAPHDESK_API_TOKEN", "env-token")

	content := `
graph:
  tenant_id: "file-tenant"
  client_id: "file-client"
  client_secret: "file-secret"

api:
  token: "file-token"
`
	tmpFile := filepath.Join(t.TempDir(), "graphdesk.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadFromFile(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "env-tenant", cfg.Graph.TenantID)
	assert.Equal(t, "env-client", cfg.Graph.ClientID)
	assert.Equal(t, "env-token", cfg.API.Token)
}

func TestExpandHome_ReplacesTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "data", "graphdesk.db"), ExpandHome("~/data/graphdesk.db"))
	assert.Equal(t, "/var/lib/graphdesk.db", ExpandHome("/var/lib/graphdesk.db"))
}
