// Package config defines all configuration for the pre-dispatch decision
// core. Config is loaded from a YAML file (default: configs/config.yaml)
// with overrides via SOLDIER_* environment variables, via a two-step
// Load/Validate.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	soldierconfig "github.com/speelbreaker12/opus-trader-sub000/internal/soldier/config"
)

// Config is the top-level configuration. Maps directly to the YAML file structure.
type Config struct {
	DryRun    bool            `mapstructure:"dry_run"`
	Venue     VenueConfig     `mapstructure:"venue"`
	Gates     GateConfig      `mapstructure:"gates"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// VenueConfig points at the upstream venue's REST metadata endpoint and
// event-stream URL. FeedURL empty means cmd/soldier wires
// feed.NewSimulatedSource instead of a live feed.Feed.
type VenueConfig struct {
	RESTBaseURL        string        `mapstructure:"rest_base_url"`
	FeedURL            string        `mapstructure:"feed_url"`
	Instruments        []string      `mapstructure:"instruments"`
	InstrumentCacheTTL time.Duration `mapstructure:"instrument_cache_ttl"`
	PollInterval       time.Duration `mapstructure:"poll_interval"`
}

// GateConfig carries the operator's explicit overrides for every
// internal/soldier/config.Param gate threshold. A nil field falls through to
// the Appendix-A default via Resolve; DeltaLimitUsd has no Appendix-A
// default and must be supplied explicitly or every OPEN intent's
// pending-exposure/inventory-skew gates fail closed.
type GateConfig struct {
	MinEdgeUsd                  *float64 `mapstructure:"min_edge_usd"`
	MaxSlippageBps               *float64 `mapstructure:"max_slippage_bps"`
	SnapshotMaxAgeMs             *float64 `mapstructure:"snapshot_max_age_ms"`
	InventorySkewK               *float64 `mapstructure:"inventory_skew_k"`
	InventorySkewTickPenaltyMax  *float64 `mapstructure:"inventory_skew_tick_penalty_max"`
	GlobalDeltaLimitUsd          *float64 `mapstructure:"global_delta_limit_usd"`
	MarginRejectOpens            *float64 `mapstructure:"margin_reject_opens"`
	MarginReduceOnly             *float64 `mapstructure:"margin_reduceonly"`
	MarginKill                   *float64 `mapstructure:"margin_kill"`
	ExpiryDelistBufferS          *float64 `mapstructure:"expiry_delist_buffer_s"`
	FeeCacheSoftS                *float64 `mapstructure:"fee_cache_soft_s"`
	FeeCacheHardS                *float64 `mapstructure:"fee_cache_hard_s"`
	FeeCacheStaleBuffer          *float64 `mapstructure:"fee_cache_stale_buffer"`
	WalCapacity                  *float64 `mapstructure:"wal_capacity"`
	RegistryCapacity             *float64 `mapstructure:"registry_capacity"`
	// DeltaLimitUsd is the per-account risk limit the inventory-skew and
	// pending-exposure gates require explicitly; soldier/config has no
	// system-wide default for it.
	DeltaLimitUsd *float64 `mapstructure:"delta_limit_usd"`
}

// explicit returns the operator-supplied override for param, or nil if the
// operator left it unset.
func (g GateConfig) explicit(param soldierconfig.Param) *float64 {
	switch param {
	case soldierconfig.ParamMinEdgeUsd:
		return g.MinEdgeUsd
	case soldierconfig.ParamMaxSlippageBps:
		return g.MaxSlippageBps
	case soldierconfig.ParamSnapshotMaxAgeMs:
		return g.SnapshotMaxAgeMs
	case soldierconfig.ParamInventorySkewK:
		return g.InventorySkewK
	case soldierconfig.ParamInventorySkewTickPenaltyMax:
		return g.InventorySkewTickPenaltyMax
	case soldierconfig.ParamGlobalDeltaLimitUsd:
		return g.GlobalDeltaLimitUsd
	case soldierconfig.ParamMarginRejectOpens:
		return g.MarginRejectOpens
	case soldierconfig.ParamMarginReduceOnly:
		return g.MarginReduceOnly
	case soldierconfig.ParamMarginKill:
		return g.MarginKill
	case soldierconfig.ParamExpiryDelistBufferS:
		return g.ExpiryDelistBufferS
	case soldierconfig.ParamFeeCacheSoftS:
		return g.FeeCacheSoftS
	case soldierconfig.ParamFeeCacheHardS:
		return g.FeeCacheHardS
	case soldierconfig.ParamFeeCacheStaleBuffer:
		return g.FeeCacheStaleBuffer
	case soldierconfig.ParamWalCapacity:
		return g.WalCapacity
	case soldierconfig.ParamRegistryCapacity:
		return g.RegistryCapacity
	default:
		return nil
	}
}

// Resolve resolves param through soldierconfig.Resolve using this config's
// explicit override, if any.
func (g GateConfig) Resolve(param soldierconfig.Param) (float64, error) {
	return soldierconfig.Resolve(param, g.explicit(param))
}

// LedgerConfig points at the WAL's optional durable backing file. Path
// empty means the ledger is in-memory only.
type LedgerConfig struct {
	Path string `mapstructure:"path"`
}

// RegistryConfig points at the trade-ID registry's optional durable backing
// file. Path empty means the registry is in-memory only.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DashboardConfig controls the web dashboard server.
type DashboardConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads config from a YAML file with env var overrides (SOLDIER_*).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("SOLDIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks all required fields and value ranges, and that every
// explicitly-supplied gate threshold actually resolves (soldierconfig.Resolve
// fails closed on a non-finite or negative explicit value).
func (c *Config) Validate() error {
	if c.Venue.RESTBaseURL == "" {
		return fmt.Errorf("venue.rest_base_url is required")
	}
	if c.Venue.InstrumentCacheTTL <= 0 {
		return fmt.Errorf("venue.instrument_cache_ttl must be > 0")
	}
	if c.Venue.PollInterval <= 0 {
		return fmt.Errorf("venue.poll_interval must be > 0")
	}
	if len(c.Venue.Instruments) == 0 {
		return fmt.Errorf("venue.instruments must list at least one instrument")
	}

	for _, param := range soldierconfig.AllParams() {
		if _, err := c.Gates.Resolve(param); err != nil {
			return fmt.Errorf("gates.%s: %w", param, err)
		}
	}
	if c.Gates.DeltaLimitUsd == nil || *c.Gates.DeltaLimitUsd <= 0 {
		return fmt.Errorf("gates.delta_limit_usd is required and must be > 0: no system-wide default exists for a per-account risk limit")
	}

	if c.Dashboard.Enabled && c.Dashboard.Port <= 0 {
		return fmt.Errorf("dashboard.port must be > 0 when dashboard.enabled is true")
	}

	return nil
}
