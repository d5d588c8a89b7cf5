// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("REJECT_POLICY", "delete")

	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://test", cfg.DatabaseURL)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, RejectDelete, cfg.RejectPolicy)
}

func TestParseFlags_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("REJECT_POLICY", "")

	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)

	assert.Equal(t, 3318, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, RejectRetain, cfg.RejectPolicy)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-jwt-secret", "s1", "-reject-policy", "retain"})
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "file:test.db", cfg.DatabaseURL)
	assert.Equal(t, "s1", cfg.JWTSecret)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{
			name: "missing database url",
			env:  map[string]string{"DATABASE_URL": "", "JWT_SECRET": "s"},
		},
		{
			name: "missing jwt secret",
			env:  map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": ""},
		},
		{
			name: "bad port",
			env:  map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": "s", "PORT": "abc"},
		},
		{
			name: "bad reject policy",
			env:  map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": "s"},
			args: []string{"-reject-policy", "archive"},
		},
		{
			name: "bad database type",
			env:  map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": "s"},
			args: []string{"-t", "oracle"},
		},
		{
			name: "admin email without password",
			env:  map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": "s", "ADMIN_EMAIL": "root@example.com", "ADMIN_PASSWORD": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	// godotenv never overrides variables that are already set
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET", "ADMIN_EMAIL", "ADMIN_PASSWORD", "ADMIN_NAME"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_URL=file:from-env-file.db\nJWT_SECRET=from-file\nADMIN_EMAIL=root@example.com\nADMIN_PASSWORD=hunter22\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := ParseFlags([]string{"-env-file", path})
	require.NoError(t, err)

	assert.Equal(t, "file:from-env-file.db", cfg.DatabaseURL)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "root@example.com", cfg.AdminEmail)
	assert.Equal(t, "Administrator", cfg.AdminName)
}

func TestParseFlags_MissingEnvFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := ParseFlags([]string{"-env-file", filepath.Join(t.TempDir(), "absent.env")})
	assert.Error(t, err)
}
