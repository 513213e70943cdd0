package config

import (
	"os"
	"path/filepath"
	"testing"

	soldierconfig "github.com/speelbreaker12/opus-trader-sub000/internal/soldier/config"
)

func writeTempConfig(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

const validYAML = `
venue:
  rest_base_url: "https://www.deribit.com/api/v2"
  instruments: ["BTC-PERPETUAL"]
  instrument_cache_ttl: 30s
  poll_interval: 10s
gates:
  delta_limit_usd: 50000
logging:
  level: info
  format: json
`

func TestLoadParsesYAML(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Venue.RESTBaseURL != "https://www.deribit.com/api/v2" {
		t.Errorf("RESTBaseURL = %q", cfg.Venue.RESTBaseURL)
	}
	if len(cfg.Venue.Instruments) != 1 || cfg.Venue.Instruments[0] != "BTC-PERPETUAL" {
		t.Errorf("Instruments = %v", cfg.Venue.Instruments)
	}
	if cfg.Gates.DeltaLimitUsd == nil || *cfg.Gates.DeltaLimitUsd != 50000 {
		t.Errorf("DeltaLimitUsd = %v, want 50000", cfg.Gates.DeltaLimitUsd)
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsMissingRESTBaseURL(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
venue:
  instruments: ["BTC-PERPETUAL"]
  instrument_cache_ttl: 30s
  poll_interval: 10s
gates:
  delta_limit_usd: 50000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing venue.rest_base_url")
	}
}

func TestValidateRejectsMissingDeltaLimit(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
venue:
  rest_base_url: "https://example.invalid"
  instruments: ["BTC-PERPETUAL"]
  instrument_cache_ttl: 30s
  poll_interval: 10s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing gates.delta_limit_usd")
	}
}

func TestValidateRejectsEmptyInstrumentList(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
venue:
  rest_base_url: "https://example.invalid"
  instrument_cache_ttl: 30s
  poll_interval: 10s
gates:
  delta_limit_usd: 50000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for an empty venue.instruments list")
	}
}

func TestValidateRejectsNegativeExplicitGateOverride(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
venue:
  rest_base_url: "https://example.invalid"
  instruments: ["BTC-PERPETUAL"]
  instrument_cache_ttl: 30s
  poll_interval: 10s
gates:
  delta_limit_usd: 50000
  min_edge_usd: -1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for a negative explicit gate override")
	}
}

func TestGateConfigResolveFallsBackToAppendixADefault(t *testing.T) {
	t.Parallel()
	var g GateConfig
	v, err := g.Resolve(soldierconfig.ParamMarginKill)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if v != 0.90 {
		t.Errorf("got %v, want Appendix-A default 0.90", v)
	}
}

func TestGateConfigResolveHonorsExplicitOverride(t *testing.T) {
	t.Parallel()
	override := 0.5
	g := GateConfig{MarginKill: &override}
	v, err := g.Resolve(soldierconfig.ParamMarginKill)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if v != 0.5 {
		t.Errorf("got %v, want explicit override 0.5", v)
	}
}
