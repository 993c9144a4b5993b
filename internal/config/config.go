// Package config binds the process environment to typed settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingCredentials = errors.New("missing required credentials")

type Config struct {
	MarketData MarketDataConfig
	Narrative  NarrativeConfig
	Resolver   ResolverConfig

	DigestCharCap int
	Port          string
	DatabaseURL   string
	RedisURL      string
	LogLevel      string
	DebugHTTP     bool
}

type MarketDataConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	Ticker     string
	FinnhubKey string
	SpotSymbol string
}

type NarrativeConfig struct {
	Provider     string
	AnthropicKey string
	OpenAIKey    string
	Model        string
	MaxTokens    int64
	Temperature  float64
	Timeout      time.Duration
}

type ResolverConfig struct {
	Intraday      bool
	AlternateDate bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MARKETDATA_BASE_URL", "https://api.optionsdepth.com/options-depth-api/v1")
	v.SetDefault("MARKETDATA_TIMEOUT", "15s")
	v.SetDefault("TICKER", "SPX")
	v.SetDefault("SPOT_SYMBOL", "SPY")
	v.SetDefault("NARRATIVE_PROVIDER", "anthropic")
	v.SetDefault("NARRATIVE_MAX_TOKENS", 2000)
	v.SetDefault("NARRATIVE_TEMPERATURE", 0.3)
	v.SetDefault("NARRATIVE_TIMEOUT", "60s")
	v.SetDefault("DIGEST_CHAR_CAP", 1000)
	v.SetDefault("RESOLVER_INTRADAY", true)
	v.SetDefault("RESOLVER_ALTERNATE_DATE", true)
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads the environment. Missing credentials are not an error here;
// call Validate before doing any upstream work.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		MarketData: MarketDataConfig{
			APIKey:     v.GetString("OPTIONSDEPTH_API_KEY"),
			BaseURL:    v.GetString("MARKETDATA_BASE_URL"),
			Timeout:    v.GetDuration("MARKETDATA_TIMEOUT"),
			Ticker:     strings.ToUpper(v.GetString("TICKER")),
			FinnhubKey: v.GetString("FINNHUB_API_KEY"),
			SpotSymbol: strings.ToUpper(v.GetString("SPOT_SYMBOL")),
		},
		Narrative: NarrativeConfig{
			Provider:     strings.ToLower(v.GetString("NARRATIVE_PROVIDER")),
			AnthropicKey: v.GetString("ANTHROPIC_API_KEY"),
			OpenAIKey:    v.GetString("OPENAI_API_KEY"),
			Model:        v.GetString("NARRATIVE_MODEL"),
			MaxTokens:    v.GetInt64("NARRATIVE_MAX_TOKENS"),
			Temperature:  v.GetFloat64("NARRATIVE_TEMPERATURE"),
			Timeout:      v.GetDuration("NARRATIVE_TIMEOUT"),
		},
		Resolver: ResolverConfig{
			Intraday:      v.GetBool("RESOLVER_INTRADAY"),
			AlternateDate: v.GetBool("RESOLVER_ALTERNATE_DATE"),
		},
		DigestCharCap: v.GetInt("DIGEST_CHAR_CAP"),
		Port:          v.GetString("PORT"),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		RedisURL:      v.GetString("REDIS_URL"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		DebugHTTP:     v.GetBool("DEBUG_HTTP"),
	}
}

// NarrativeKeyName is the environment variable holding the key for the
// selected provider.
func (c *Config) NarrativeKeyName() string {
	if c.Narrative.Provider == "openai" {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

func (c *Config) NarrativeKey() string {
	if c.Narrative.Provider == "openai" {
		return c.Narrative.OpenAIKey
	}
	return c.Narrative.AnthropicKey
}

func (c *Config) Validate() error {
	var missing []string
	if c.MarketData.APIKey == "" {
		missing = append(missing, "OPTIONSDEPTH_API_KEY")
	}
	if c.NarrativeKey() == "" {
		missing = append(missing, c.NarrativeKeyName())
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}
