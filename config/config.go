package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/uyouii/littlesprout/assistant"
	"github.com/uyouii/littlesprout/common"
)

const (
	EnvPrefix = "LITTLESPROUT"

	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Settings struct {
	Log struct {
		Level string
	}

	Storage struct {
		Backend string
		Path    string
		Redis   struct {
			Addr     string
			Password string
			DB       int
		}
	}

	Assistant struct {
		APIKey     string
		Model      string
		BaseURL    string
		APIVersion string
		Timeout    time.Duration
		MaxRecords int
	}
}

func (s *Settings) AssistantConfig() assistant.Config {
	return assistant.Config{
		APIKey:     s.Assistant.APIKey,
		Model:      s.Assistant.Model,
		BaseURL:    s.Assistant.BaseURL,
		APIVersion: s.Assistant.APIVersion,
		Timeout:    s.Assistant.Timeout,
		MaxRecords: s.Assistant.MaxRecords,
	}
}

// DefaultDir is where the config file and the file backend live by default.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".littlesprout"
	}
	return filepath.Join(home, ".littlesprout")
}

// New returns a viper instance with defaults, config search paths and
// environment variable binding in place. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(DefaultDir())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the key name used by the hosted model docs works too
	_ = v.BindEnv("assistant.apikey", EnvPrefix+"_ASSISTANT_APIKEY", "API_KEY")

	setDefaultConfig(v)
	return v
}

func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.path", filepath.Join(DefaultDir(), "data"))
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)

	v.SetDefault("assistant.apikey", "")
	v.SetDefault("assistant.model", assistant.DefaultModel)
	v.SetDefault("assistant.baseurl", assistant.DefaultBaseURL)
	v.SetDefault("assistant.apiversion", assistant.DefaultAPIVersion)
	v.SetDefault("assistant.timeout", assistant.DefaultTimeout)
	v.SetDefault("assistant.maxrecords", assistant.DefaultMaxRecords)
}

// Load reads the config file if there is one, then unmarshals and validates.
// A missing config file is not an error.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func ValidateSettings(settings *Settings) error {
	switch settings.Storage.Backend {
	case BackendFile:
		if settings.Storage.Path == "" {
			return fmt.Errorf("storage.path is empty: %w", common.ErrorInvalidConfig)
		}
	case BackendRedis:
		if settings.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is empty: %w", common.ErrorInvalidConfig)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q: %w", settings.Storage.Backend, common.ErrorInvalidConfig)
	}

	if settings.Storage.Redis.DB < 0 {
		return fmt.Errorf("storage.redis.db %d: %w", settings.Storage.Redis.DB, common.ErrorInvalidConfig)
	}
	if settings.Assistant.Timeout < 0 || settings.Assistant.MaxRecords < 0 {
		return fmt.Errorf("assistant limits must not be negative: %w", common.ErrorInvalidConfig)
	}
	return nil
}
