package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Gastos", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, slog.LevelInfo, cfg.App.LogLevel)
	assert.Equal(t, "0.14", cfg.Mileage.DefaultKmRate.String())
	assert.Equal(t, 4, cfg.Export.ZipConcurrency)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.False(t, cfg.DriveConfigured())
	assert.Equal(t, "postgres://postgres:@localhost:5432/gastos?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_KM_RATE", "0.19")
	t.Setenv("DRIVE_CREDENTIALS_FILE", "/etc/gastos/sa.json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.App.LogLevel)
	assert.Equal(t, "0.19", cfg.Mileage.DefaultKmRate.String())
	assert.True(t, cfg.DriveConfigured())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "MissingSecret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "ZeroKmRate", env: map[string]string{"JWT_SECRET": "secret", "DEFAULT_KM_RATE": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadClient(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("GASTOS_API_TOKEN", "tok")

		cfg, err := config.LoadClient()
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:8080/api/v1", cfg.APIURL)
		assert.Equal(t, 15*time.Second, cfg.Timeout)
		assert.Equal(t, "0.14", cfg.DefaultKmRate.String())
		assert.Equal(t, int64(10<<20), cfg.MaxReceiptBytes)
	})

	t.Run("MissingToken", func(t *testing.T) {
		t.Setenv("GASTOS_API_TOKEN", "")

		_, err := config.LoadClient()
		require.Error(t, err)
	})

	t.Run("ZeroKmRate", func(t *testing.T) {
		t.Setenv("GASTOS_API_TOKEN", "tok")
		t.Setenv("GASTOS_DEFAULT_KM_RATE", "0")

		_, err := config.LoadClient()
		require.ErrorContains(t, err, "GASTOS_DEFAULT_KM_RATE")
	})
}
