// Package config loads apicatalog configuration from defaults, an optional
// YAML file and APICATALOG_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jonwraymond/apicatalog/cost"
	"github.com/jonwraymond/apicatalog/index"
	"github.com/jonwraymond/apicatalog/internal/logging"
	"github.com/jonwraymond/apicatalog/search"
)

// EnvPrefix prefixes every environment override, e.g.
// APICATALOG_SEARCH_MAX_LIMIT.
const EnvPrefix = "APICATALOG"

// ErrInvalid reports a configuration value that fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the apicatalog configuration.
type Config struct {
	CatalogPath    string         `mapstructure:"catalog_path"`
	DependencyPath string         `mapstructure:"dependency_path"`
	Search         SearchConfig   `mapstructure:"search"`
	Cost           CostConfig     `mapstructure:"cost"`
	BM25           BM25Config     `mapstructure:"bm25"`
	Server         ServerConfig   `mapstructure:"server"`
	Logging        logging.Config `mapstructure:"logging"`
}

// SearchConfig represents search and ranking configuration.
type SearchConfig struct {
	DefaultLimit    int     `mapstructure:"default_limit"`
	MaxLimit        int     `mapstructure:"max_limit"`
	MinScore        float64 `mapstructure:"min_score"`
	MinTermLength   int     `mapstructure:"min_term_length"`
	EnableFuzzy     bool    `mapstructure:"enable_fuzzy"`
	MaxEditDistance int     `mapstructure:"max_edit_distance"`
	HybridAlpha     float64 `mapstructure:"hybrid_alpha"`
}

// CostConfig represents cost estimator constants.
type CostConfig struct {
	BaseLatencyMs     int    `mapstructure:"base_latency_ms"`
	PerFieldLatencyMs int    `mapstructure:"per_field_latency_ms"`
	PricePer1kTokens  string `mapstructure:"price_per_1k_tokens"`
}

// BM25Config represents full-text search configuration.
type BM25Config struct {
	NameBoost     float64 `mapstructure:"name_boost"`
	DomainBoost   float64 `mapstructure:"domain_boost"`
	ResourceBoost float64 `mapstructure:"resource_boost"`
	MaxDocs       int     `mapstructure:"max_docs"`
	MaxDocTextLen int     `mapstructure:"max_doc_text_len"`
}

// ServerConfig represents MCP server configuration.
type ServerConfig struct {
	Name      string `mapstructure:"name"`
	Version   string `mapstructure:"version"`
	Transport string `mapstructure:"transport"` // stdio or http
	Addr      string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog_path", "")
	v.SetDefault("dependency_path", "")

	v.SetDefault("search.default_limit", 10)
	v.SetDefault("search.max_limit", 50)
	v.SetDefault("search.min_score", 0.1)
	v.SetDefault("search.min_term_length", index.DefaultMinTermLength)
	v.SetDefault("search.enable_fuzzy", true)
	v.SetDefault("search.max_edit_distance", index.DefaultMaxEditDistance)
	v.SetDefault("search.hybrid_alpha", 0.5)

	v.SetDefault("cost.base_latency_ms", cost.DefaultBaseLatency.Milliseconds())
	v.SetDefault("cost.per_field_latency_ms", cost.DefaultPerFieldLatency.Milliseconds())
	v.SetDefault("cost.price_per_1k_tokens", cost.DefaultPricePerThousand)

	v.SetDefault("bm25.name_boost", search.DefaultNameBoost)
	v.SetDefault("bm25.domain_boost", search.DefaultDomainBoost)
	v.SetDefault("bm25.resource_boost", search.DefaultResourceBoost)
	v.SetDefault("bm25.max_docs", 0)
	v.SetDefault("bm25.max_doc_text_len", 0)

	v.SetDefault("server.name", "apicatalog")
	v.SetDefault("server.version", "dev")
	v.SetDefault("server.transport", "stdio")
	v.SetDefault("server.addr", ":8080")

	def := logging.DefaultConfig()
	v.SetDefault("logging.level", def.Level)
	v.SetDefault("logging.format", def.Format)
	v.SetDefault("logging.output", def.Output)
	v.SetDefault("logging.development", def.Development)
}

// Load reads configuration. When path is empty, apicatalog.yaml in the
// working directory is used if present; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("apicatalog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	s := c.Search
	if s.DefaultLimit <= 0 {
		fail("search.default_limit must be positive, got %d", s.DefaultLimit)
	}
	if s.MaxLimit <= 0 {
		fail("search.max_limit must be positive, got %d", s.MaxLimit)
	}
	if s.MaxLimit < s.DefaultLimit {
		fail("search.max_limit %d is below search.default_limit %d", s.MaxLimit, s.DefaultLimit)
	}
	if s.MinScore < 0 || s.MinScore > 1 {
		fail("search.min_score must be in [0, 1], got %v", s.MinScore)
	}
	if s.MinTermLength <= 0 {
		fail("search.min_term_length must be positive, got %d", s.MinTermLength)
	}
	if s.MaxEditDistance < 0 {
		fail("search.max_edit_distance must not be negative, got %d", s.MaxEditDistance)
	}
	if s.HybridAlpha < 0 || s.HybridAlpha > 1 {
		fail("search.hybrid_alpha must be in [0, 1], got %v", s.HybridAlpha)
	}

	if c.Cost.BaseLatencyMs < 0 || c.Cost.PerFieldLatencyMs < 0 {
		fail("cost latencies must not be negative")
	}
	if _, err := decimal.NewFromString(c.Cost.PricePer1kTokens); err != nil {
		fail("cost.price_per_1k_tokens %q: %v", c.Cost.PricePer1kTokens, err)
	}

	switch c.Server.Transport {
	case "stdio", "http":
	default:
		fail("server.transport must be stdio or http, got %q", c.Server.Transport)
	}
	return errors.Join(errs...)
}

// MatchOptions returns the fuzzy matching options.
func (c *Config) MatchOptions() index.SearchOptions {
	return index.SearchOptions{
		DisableFuzzy:    !c.Search.EnableFuzzy,
		MaxEditDistance: c.Search.MaxEditDistance,
	}
}

// IndexOptions returns the tokenization options.
func (c *Config) IndexOptions() index.BuildOptions {
	return index.BuildOptions{MinTermLength: c.Search.MinTermLength}
}

// CostConfig returns the estimator constants. Validate has already checked
// the price.
func (c *Config) CostConfig() cost.Config {
	price, _ := decimal.NewFromString(c.Cost.PricePer1kTokens)
	return cost.Config{
		BaseLatency:            time.Duration(c.Cost.BaseLatencyMs) * time.Millisecond,
		PerFieldLatency:        time.Duration(c.Cost.PerFieldLatencyMs) * time.Millisecond,
		PricePerThousandTokens: price,
	}
}

// BM25Config returns the full-text search configuration.
func (c *Config) BM25Config() search.BM25Config {
	return search.BM25Config{
		NameBoost:     c.BM25.NameBoost,
		DomainBoost:   c.BM25.DomainBoost,
		ResourceBoost: c.BM25.ResourceBoost,
		MaxDocs:       c.BM25.MaxDocs,
		MaxDocTextLen: c.BM25.MaxDocTextLen,
	}
}
