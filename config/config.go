// Package config loads the tracker's YAML configuration file: the
// accounting time zone, the declared accounts, and the per-market
// metadata (exchange class, contract size, default commission, close
// cutoff, fixed price overrides).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/worthtracker/worth"
)

// AccountConfig declares one account.
type AccountConfig struct {
	Owner       string `yaml:"owner"`
	Broker      string `yaml:"broker"`
	Description string `yaml:"description"`
	Active      *bool  `yaml:"active"` // nil means true
	Qualified   bool   `yaml:"qualified"`
}

// MarketConfig declares one market.
type MarketConfig struct {
	Name         string  `yaml:"name"`
	Exchange     string  `yaml:"exchange"`
	ContractSize float64 `yaml:"contract_size"` // 0 means 1
	Commission   float64 `yaml:"commission"`    // per unit traded
	Close        string  `yaml:"close"`         // "HH:MM", empty means the default cutoff
	Timezone     string  `yaml:"timezone"`      // exchange local zone, empty means UTC
	// FixedPrice pins the ticker to a constant price, for instruments
	// no feed quotes (money market funds, private holdings).
	FixedPrice *float64 `yaml:"fixed_price"`
	PricePrec  int32    `yaml:"price_precision"`
}

// Config is the parsed configuration file.
type Config struct {
	// Timezone is the accounting time zone, "America/New_York" style.
	// Empty means UTC.
	Timezone string                   `yaml:"timezone"`
	Ledger   string                   `yaml:"ledger"` // path to the ledger database
	Accounts map[string]AccountConfig `yaml:"accounts"`
	Markets  map[string]MarketConfig  `yaml:"markets"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config %q: %w", path, err)
	}
	return Parse(raw)
}

// Parse parses a YAML configuration document.
func Parse(raw []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return nil, err
	}
	if _, err := c.MarketMap(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Location returns the accounting time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// AccountMap converts the declared accounts to the engine's resolver.
func (c *Config) AccountMap() worth.AccountMap {
	m := make(worth.AccountMap, len(c.Accounts))
	for name, a := range c.Accounts {
		active := a.Active == nil || *a.Active
		m[name] = worth.Account{
			Name:        name,
			Owner:       a.Owner,
			Broker:      a.Broker,
			Description: a.Description,
			Active:      active,
			Qualified:   a.Qualified,
		}
	}
	return m
}

// MarketMap converts the declared markets to the engine's resolver.
func (c *Config) MarketMap() (worth.MarketMap, error) {
	m := make(worth.MarketMap, len(c.Markets))
	for symbol, mc := range c.Markets {
		mkt := worth.Market{
			Symbol:       symbol,
			Name:         mc.Name,
			Exchange:     mc.Exchange,
			ContractSize: contractSize(mc.ContractSize),
			Commission:   decimalFrom(mc.Commission),
			PricePrec:    mc.PricePrec,
		}
		if mc.Close != "" {
			cut, err := worth.ParseTimeOfDay(mc.Close)
			if err != nil {
				return nil, fmt.Errorf("market %q: %w", symbol, err)
			}
			mkt.Close = cut
		}
		if mc.Timezone != "" {
			loc, err := time.LoadLocation(mc.Timezone)
			if err != nil {
				return nil, fmt.Errorf("market %q: invalid timezone %q: %w", symbol, mc.Timezone, err)
			}
			mkt.Location = loc
		}
		m[symbol] = mkt
	}
	return m, nil
}

// contractSize maps the config value to a decimal, defaulting to 1.
func contractSize(v float64) decimal.Decimal {
	if v == 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(v)
}

func decimalFrom(v float64) decimal.Decimal {
	if v == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// FixedPrices builds a price source for the pinned tickers. It is
// typically layered in front of the stored closes with worth.Fallback.
func (c *Config) FixedPrices() *worth.PriceTable {
	t := worth.NewPriceTable()
	for symbol, mc := range c.Markets {
		if mc.FixedPrice != nil {
			t.SetFixed(symbol, *mc.FixedPrice)
		}
	}
	return t
}
