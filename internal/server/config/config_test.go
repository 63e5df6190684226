package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Equal(t, 8*time.Hour, cfg.AdminSessionValidityDuration)
	assert.Greater(t, cfg.BcryptCost, 0)
}

func TestParseJson(t *testing.T) {
	content := `{
		"endpoint_addr_http": ":9090",
		"database_dsn": "postgres://u:p@localhost:5432/test",
		"secret_key": "json-secret",
		"admin_session_validity_duration": "30m",
		"bcrypt_cost": 4,
		"s3_bucket": "test-avatars"
	}`

	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"accountd", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@localhost:5432/test", cfg.DatabaseDSN)
	assert.Equal(t, "json-secret", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.AdminSessionValidityDuration)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, "test-avatars", cfg.S3Bucket)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"accountd", "-a", ":7070", "-d", "dsn-from-flag", "-t", "15", "-w", "6"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "dsn-from-flag", cfg.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, cfg.AdminSessionValidityDuration)
	assert.Equal(t, 6, cfg.BcryptCost)
}
