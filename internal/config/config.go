package config

import (
	"fmt"
	"time"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/spf13/viper"
)

// Defaults for settings that are not configured.
const (
	DefaultDatabasePath = "$HOME/.local/share/diary/diary.db"
	DefaultServerAddr   = ":8787"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// Settings are the resolved application settings.
type Settings struct {
	DatabasePath string
	LogLevel     string
	LogFormat    string
	ServerAddr   string
	CacheTTL     time.Duration
}

// SetDefaults registers the default value of every known key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("cache.ttl", time.Duration(0))
}

// Load reads Settings from v, expanding the database path.
func Load(v *viper.Viper) (Settings, error) {
	settings := Settings{
		DatabasePath: ExpandPath(v.GetString("database.path")),
		LogLevel:     v.GetString("logging.level"),
		LogFormat:    v.GetString("logging.format"),
		ServerAddr:   v.GetString("server.addr"),
		CacheTTL:     v.GetDuration("cache.ttl"),
	}
	if settings.DatabasePath == "" {
		settings.DatabasePath = ExpandPath(DefaultDatabasePath)
	}
	if settings.ServerAddr == "" {
		settings.ServerAddr = DefaultServerAddr
	}
	if settings.CacheTTL < 0 {
		return Settings{}, fmt.Errorf("%w: cache.ttl cannot be negative", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(settings.LogLevel); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
