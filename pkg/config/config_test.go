package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiredFieldMissing(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "")
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "DATABASE_FILE_PATH")
	assert.Contains(t, err.Error(), "database_file_path")
}

func TestNew_JWTSecretMissing(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNew_WithEnvVar(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.DatabaseFilePath)
	assert.Equal(t, "test-secret-key", cfg.JWTSecret)
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	require.NoError(t, os.Unsetenv("SERVER_PORT"))

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 3689, cfg.ServerPort)
	assert.Equal(t, 5, cfg.DatabaseConnectRetryCount)
	assert.Equal(t, 2*time.Second, cfg.DatabaseConnectRetryDelay)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionExpiry)
	assert.Equal(t, PasswordHashBcrypt, cfg.PasswordHashAlgorithm)
	assert.Equal(t, int64(10*1024*1024), cfg.UploadMaxBytes)
	assert.False(t, cfg.UploadsEnabled())
}

func TestNew_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_file_path: /data/ayokitanulis.db
server_port: 8080
database_debug: true
jwt_secret: test-secret-from-file
page_cache_ttl: 30s
cloudinary_cloud_name: demo
cloudinary_upload_preset: unsigned
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("ENVIRONMENT", "")
	require.NoError(t, os.Unsetenv("DATABASE_FILE_PATH"))
	require.NoError(t, os.Unsetenv("SERVER_PORT"))
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/ayokitanulis.db", cfg.DatabaseFilePath)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.True(t, cfg.DatabaseDebug)
	assert.Equal(t, 30*time.Second, cfg.PageCacheTTL)
	assert.True(t, cfg.UploadsEnabled())
	assert.Equal(t, "https://api.cloudinary.com/v1_1/demo/upload", cfg.UploadEndpoint())
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_file_path: /data/from-file.db
server_port: 8080
jwt_secret: test-secret-from-file
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("DATABASE_FILE_PATH", "/data/from-env.db")
	t.Setenv("SERVER_PORT", "9090")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/from-env.db", cfg.DatabaseFilePath)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "test-secret-from-file", cfg.JWTSecret)
}

func TestNew_DevelopmentFillsDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("ENVIRONMENT", "development")
	require.NoError(t, os.Unsetenv("DATABASE_FILE_PATH"))
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "./tmp/data.sqlite", cfg.DatabaseFilePath)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.True(t, cfg.DatabaseDebug)
}

func TestNew_InvalidPasswordHashAlgorithm(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("PASSWORD_HASH_ALGORITHM", "md5")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password_hash_algorithm")
}
