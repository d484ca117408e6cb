package infra

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Decimal wraps decimal.Decimal for config fields: yaml.v3 has no
// encoding.TextUnmarshaler fallback, so the string form is parsed here.
type Decimal struct {
	decimal.Decimal
}

// UnmarshalYAML parses a scalar node as an exact decimal.
func (d *Decimal) UnmarshalYAML(value *yaml.Node) error {
	dec, err := decimal.NewFromString(value.Value)
	if err != nil {
		return err
	}
	d.Decimal = dec
	return nil
}

// Config holds every runtime setting. Loaded once at startup; env variables
// override after the YAML parse.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Instrument struct {
		Symbol      string  `yaml:"symbol"`
		TickSize    Decimal `yaml:"tick_size"`
		LotSize     int64   `yaml:"lot_size"`
		MaxShares   int64   `yaml:"max_shares"`   // 0 = derive from cash_balance
		CashBalance Decimal `yaml:"cash_balance"` // Used when max_shares is 0
	} `yaml:"instrument"`

	Feed struct {
		QuotesPath string `yaml:"quotes_path"`
		PrintsPath string `yaml:"prints_path"`
		BarsPath   string `yaml:"bars_path"`
	} `yaml:"feed"`

	Engine struct {
		InboxSize int `yaml:"inbox_size"`
	} `yaml:"engine"`

	Performance struct {
		RiskFreeRate   float64 `yaml:"risk_free_rate"`
		PeriodsPerYear int     `yaml:"periods_per_year"`
	} `yaml:"performance"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
// A .env file, when present, is loaded first so its variables can override.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Instrument.Symbol == "" {
		return fmt.Errorf("instrument symbol is required")
	}
	if !c.Instrument.TickSize.IsPositive() {
		return fmt.Errorf("tick size must be positive, got %s", c.Instrument.TickSize)
	}
	if c.Instrument.LotSize <= 0 {
		return fmt.Errorf("lot size must be positive")
	}
	if c.Instrument.MaxShares == 0 && !c.Instrument.CashBalance.IsPositive() {
		return fmt.Errorf("either max_shares or cash_balance must be set")
	}
	if c.Instrument.MaxShares != 0 && c.Instrument.MaxShares < c.Instrument.LotSize {
		return fmt.Errorf("max_shares must be at least one lot")
	}
	if c.Feed.QuotesPath == "" {
		return fmt.Errorf("quotes feed path is required")
	}
	if c.Engine.InboxSize <= 0 {
		return fmt.Errorf("inbox size must be positive")
	}
	if c.Performance.PeriodsPerYear < 0 {
		return fmt.Errorf("periods per year cannot be negative")
	}
	return nil
}

// overrideWithEnv overrides settings when the corresponding env variable exists.
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("IMBALANCE_QUOTES_PATH"); v != "" {
		cfg.Feed.QuotesPath = v
	}
	if v := os.Getenv("IMBALANCE_PRINTS_PATH"); v != "" {
		cfg.Feed.PrintsPath = v
	}
	if v := os.Getenv("IMBALANCE_BARS_PATH"); v != "" {
		cfg.Feed.BarsPath = v
	}
	if v := os.Getenv("IMBALANCE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
