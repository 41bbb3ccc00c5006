package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("DIARY_TEST_DIR", "/srv/diary")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde prefix", "~/diary.db", filepath.Join(home, "diary.db")},
		{"env var", "$DIARY_TEST_DIR/diary.db", "/srv/diary/diary.db"},
		{"plain", "/tmp/diary.db", "/tmp/diary.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)

		settings, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, ExpandPath(DefaultDatabasePath), settings.DatabasePath)
		assert.Equal(t, DefaultServerAddr, settings.ServerAddr)
		assert.Equal(t, "info", settings.LogLevel)
		assert.Zero(t, settings.CacheTTL)
	})

	t.Run("overrides", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("database.path", "/data/shop.db")
		v.Set("server.addr", "127.0.0.1:9000")
		v.Set("cache.ttl", "5m")
		v.Set("logging.level", "debug")

		settings, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, "/data/shop.db", settings.DatabasePath)
		assert.Equal(t, "127.0.0.1:9000", settings.ServerAddr)
		assert.Equal(t, 5*time.Minute, settings.CacheTTL)
	})

	t.Run("invalid level", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("logging.level", "loud")

		_, err := Load(v)
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("negative ttl", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("cache.ttl", "-1s")

		_, err := Load(v)
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func clearSheetsEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_SPREADSHEET_ID", "GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Run("from viper", func(t *testing.T) {
		clearSheetsEnv(t)
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		v := viper.New()
		v.Set("sheets.service_account_path", "~/keys/diary.json")
		v.Set("sheets.spreadsheet_name", "Kitchen")
		v.Set("sheets.enable_formatting", false)

		config, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "keys", "diary.json"), config.ServiceAccountPath)
		assert.Equal(t, "Kitchen", config.SpreadsheetName)
		assert.False(t, config.EnableFormatting)
	})

	t.Run("env wins", func(t *testing.T) {
		clearSheetsEnv(t)
		t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-client")
		t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "env-secret")
		t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "env-token")

		v := viper.New()
		v.Set("sheets.client_id", "viper-client")

		config, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "env-client", config.ClientID)
		assert.True(t, config.EnableFormatting)
	})

	t.Run("not configured", func(t *testing.T) {
		clearSheetsEnv(t)
		_, err := LoadSheetsConfig(viper.New())
		assert.Error(t, err)
	})
}
