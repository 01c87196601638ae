package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(viper.New())

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, time.Hour, cfg.AccessTokenDuration)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("app_env", "Production")
	v.Set("port", 9090)
	v.Set("jwt_secret", "s3cret")
	v.Set("access_token_duration", "15m")
	v.Set("storage_backend", "MinIO")
	v.Set("redis_addr", "localhost:6379")
	v.Set("cors_allowed_origins", "https://a.example.com, https://b.example.com")

	cfg := FromViper(v)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenDuration)
	assert.Equal(t, StorageMinIO, cfg.StorageBackend)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := FromViper(viper.New())
	cfg.StorageBackend = "ftp"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestDSN(t *testing.T) {
	cfg := FromViper(viper.New())
	assert.Equal(t, "host=localhost port=5432 user=postgres password=password dbname=tagfeed sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://u:p@db/feed"
	assert.Equal(t, "postgres://u:p@db/feed", cfg.DSN())
}
