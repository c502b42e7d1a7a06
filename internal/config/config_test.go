package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tariffcheck/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tariff.CacheTTL() != 24*time.Hour {
		t.Errorf("expected 24h TTL, got %s", cfg.Tariff.CacheTTL())
	}
	if !cfg.Tariff.ApproximationFraction.Equal(decimal.RequireFromString("0.7")) {
		t.Errorf("expected 0.7 approximation fraction, got %s", cfg.Tariff.ApproximationFraction)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	data := `{"tariff": {"source": "api-simulated", "api_delay_ms": 5, "approximation_fraction": "0.5", "postal_threshold": 80}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tariff.Source != SourceAPISimulated {
		t.Errorf("expected api-simulated source, got %s", cfg.Tariff.Source)
	}
	if cfg.Tariff.APIDelay() != 5*time.Millisecond {
		t.Errorf("expected 5ms delay, got %s", cfg.Tariff.APIDelay())
	}
	if !cfg.Tariff.PostalThreshold.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected threshold 80, got %s", cfg.Tariff.PostalThreshold)
	}
	if !cfg.Tariff.CacheEnabled {
		t.Errorf("expected unspecified fields to keep defaults")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{"tariff": `},
		{"unknown source", `{"tariff": {"source": "remote"}}`},
		{"fraction above one", `{"tariff": {"approximation_fraction": "1.5"}}`},
		{"negative threshold", `{"tariff": {"postal_threshold": "-1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.json")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.IsType(err, errors.TypeConfig) {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cfg.json")
	cfg := Default()
	cfg.Server.Addr = ":9999"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Server.Addr != ":9999" {
		t.Errorf("expected saved addr, got %q", loaded.Server.Addr)
	}
}
