package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  port: 9090
database:
  host: localhost
  user: unistay
  database: unistay
session:
  secret: "0123456789abcdef0123456789abcdef"
storage:
  type: local
  upload_dir: /tmp/unistay-media
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2")

	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, ":9090", cfg.GetServerAddress())
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Server.TrustedProxies)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Equal(t, "unistay_session", cfg.Session.CookieName)
	assert.Equal(t, 10, cfg.RateLimit.LoginAttempts)
	assert.Equal(t, "postgres://unistay:@db.internal:5432/unistay?sslmode=disable", cfg.GetDatabaseConnectionString())
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "short")
	_, err := Load(writeConfig(t, testYAML))
	assert.ErrorContains(t, err, "session secret")
}

func TestValidate_SendgridNeedsKey(t *testing.T) {
	t.Setenv("EMAIL_PROVIDER", "sendgrid")
	_, err := Load(writeConfig(t, testYAML))
	assert.ErrorContains(t, err, "sendgrid")
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityPublic, GetSecurityLevel("home"))
	assert.Equal(t, SecurityOwner, GetSecurityLevel("owner.booking.confirm"))
	assert.Equal(t, SecurityStudent, GetSecurityLevel("tenant.maintenance.delete"))
	assert.Equal(t, SecurityAuthenticated, GetSecurityLevel("something.new"))
}
