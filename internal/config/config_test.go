package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddress != defaultHTTPAddress || cfg.StoreName != defaultStoreName || cfg.StoreVersion != 2 {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
	if cfg.PrefsScope != "jigong" || cfg.LogFormat != "json" || cfg.DataDir == "" {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
	if len(cfg.AllowOrigins) != 0 {
		t.Fatalf("expected no allowed origins by default, got %v", cfg.AllowOrigins)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("JIGONG_DATA_DIR", "/tmp/jigong-test")
	t.Setenv("JIGONG_STORE_VERSION", "1")
	t.Setenv("JIGONG_LOG_FORMAT", "Console")
	t.Setenv("JIGONG_HTTP_ALLOW_ORIGINS", "http://localhost:3000, http://127.0.0.1:3000")

	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "/tmp/jigong-test" || cfg.StoreVersion != 1 || cfg.LogFormat != "console" {
		t.Fatalf("environment not applied: %#v", cfg)
	}
	if len(cfg.AllowOrigins) != 2 || cfg.AllowOrigins[1] != "http://127.0.0.1:3000" {
		t.Fatalf("unexpected origins %v", cfg.AllowOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"store.version": "0",
		"log.format":    "xml",
		"store.name":    " ",
	}
	for key, value := range tests {
		configViper := NewViper()
		configViper.Set(key, value)
		if _, err := Load(configViper); err == nil || !strings.Contains(err.Error(), key) {
			t.Fatalf("expected %s=%q to be rejected, got %v", key, value, err)
		}
	}
}
