// Package config loads and validates the application configuration.
//
// Sources are merged in priority order: struct defaults, then the JSON
// config file, then FEEDSYNC_-prefixed environment variables. Unknown keys
// in the file are an error so typos surface at startup instead of being
// silently ignored.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
)

const (
	// AppName is the global application identifier; it names the default
	// config file and the log file.
	AppName = "feedsync-server"

	// DefaultFilename is the config file consulted when no explicit path
	// is given.
	DefaultFilename = AppName + ".json"

	// envPrefix scopes environment overrides. Double underscores become
	// dots: FEEDSYNC_SYNC__BATCH_SIZE -> sync.batch_size.
	envPrefix = "FEEDSYNC_"
)

// Defaults returns the built-in configuration baseline.
func Defaults() AppConfig {
	return AppConfig{
		Log: LogConfig{
			Dir:     "logs",
			Console: true,
		},
		Sync: SyncConfig{
			BatchSize:       50,
			FeedTimeout:     "15s",
			TransferTimeout: "30s",
			RunBudget:       "300s",
			RatePerSecond:   2,
		},
		API: APIConfig{
			ListenPort: 8085,
		},
	}
}

// Load reads the default config file.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile reads, merges and validates configuration from the given file.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. Built-in defaults (lowest priority).
	if err := k.Load(structs.Provider(Defaults(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "loading configuration defaults failed")
	}

	// 2. JSON config file.
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrapf(err, apperrors.NotFound, "config file not found: '%s'", filename)
		}
		return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "loading config file '%s' failed", filename)
	}

	// 3. Environment overrides (highest priority).
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "loading environment overrides failed")
	}

	var cfg AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "mapping configuration onto the application structure failed")
	}

	if err := cfg.validate(); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "config file '%s' failed validation", filename)
	}

	return &cfg, nil
}

// mustDuration parses a duration string that validate() already checked.
func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic("config: duration was not validated: " + s)
	}
	return d
}
