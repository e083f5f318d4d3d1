package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix           = "JIGONG"
	defaultHTTPAddress  = "127.0.0.1:8765"
	defaultStoreName    = "RenGongJiGongDB"
	defaultStoreVersion = 2
	defaultPrefsScope   = "jigong"
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
	dataDirName         = ".jigong"
	fallbackDataDir     = "data"
)

// AppConfig captures runtime configuration for the tracker.
type AppConfig struct {
	HTTPAddress  string
	AllowOrigins []string
	DataDir      string
	StoreName    string
	StoreVersion int
	PrefsScope   string
	LogLevel     string
	LogFormat    string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("http.allow_origins", []string{})
	configViper.SetDefault("data.dir", DefaultDataDir())
	configViper.SetDefault("store.name", defaultStoreName)
	configViper.SetDefault("store.version", defaultStoreVersion)
	configViper.SetDefault("prefs.scope", defaultPrefsScope)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("log.format", defaultLogFormat)
}

// DefaultDataDir is ~/.jigong, or ./data when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return fallbackDataDir
	}
	return filepath.Join(home, dataDirName)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:  strings.TrimSpace(configViper.GetString("http.address")),
		AllowOrigins: splitOrigins(configViper.GetStringSlice("http.allow_origins")),
		DataDir:      strings.TrimSpace(configViper.GetString("data.dir")),
		StoreName:    strings.TrimSpace(configViper.GetString("store.name")),
		StoreVersion: configViper.GetInt("store.version"),
		PrefsScope:   strings.TrimSpace(configViper.GetString("prefs.scope")),
		LogLevel:     configViper.GetString("log.level"),
		LogFormat:    strings.ToLower(strings.TrimSpace(configViper.GetString("log.format"))),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// splitOrigins accepts both list values and a single comma separated env value.
func splitOrigins(values []string) []string {
	var origins []string
	for _, value := range values {
		for _, origin := range strings.Split(value, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	return origins
}

func (c AppConfig) validate() error {
	if c.HTTPAddress == "" {
		return fmt.Errorf("http.address is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.StoreName == "" {
		return fmt.Errorf("store.name is required")
	}
	if c.StoreVersion < 1 {
		return fmt.Errorf("store.version must be positive, got %d", c.StoreVersion)
	}
	if c.PrefsScope == "" {
		return fmt.Errorf("prefs.scope is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("log.format must be json or console, got %q", c.LogFormat)
	}
	return nil
}
