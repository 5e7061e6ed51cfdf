package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "c2VjcmV0",
	}))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, DriverMongo, cfg.StoreDriver)
	require.Equal(t, 2*time.Minute, cfg.Auth.TokenTTL)
	require.Equal(t, "bcrypt", cfg.Auth.HashScheme)
	require.Equal(t, "admin@example.com", cfg.Auth.AdminEmail)
	require.Equal(t, 5, cfg.Auth.LoginMaxAttempts)
	require.Equal(t, int64(5242880), cfg.Profiles.MaxImageBytes)
	require.Equal(t, ImageStoreInline, cfg.Profiles.ImageStore)
	require.Empty(t, cfg.Redis.Addr)
	require.NoError(t, cfg.Validate())
	require.True(t, cfg.IsDevelopment())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "c2VjcmV0",
		"JWT_TTL":      "2000ms",
		"STORE_DRIVER": "Postgres",
		"IMAGE_STORE":  "S3",
		"S3_BUCKET":    "avatars",
		"REDIS_ADDR":   "redis:6379",
		"ENV":          "production",
	}))
	require.NoError(t, err)

	require.Equal(t, 2000*time.Millisecond, cfg.Auth.TokenTTL)
	require.Equal(t, DriverPostgres, cfg.StoreDriver)
	require.Equal(t, ImageStoreS3, cfg.Profiles.ImageStore)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.False(t, cfg.IsDevelopment())
	require.NoError(t, cfg.Validate())
}

func TestValidate_Errors(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER": "sqlite",
		"IMAGE_STORE":  "s3",
	}))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET is required")
	require.Contains(t, err.Error(), "STORE_DRIVER")
	require.Contains(t, err.Error(), "S3_BUCKET is required")
}

func TestLoadWith_BadDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_TTL": "soon",
	}))
	require.Error(t, err)
}
