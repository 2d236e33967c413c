// Package cmd implements the wth command-line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/google/subcommands"

	"github.com/worthtracker/worth"
	"github.com/worthtracker/worth/config"
	"github.com/worthtracker/worth/date"
	"github.com/worthtracker/worth/ledgerdb"
)

// As a CLI application the lifecycle is one command per process, so
// globals for the shared flags are fine.

var configPath = flag.String("config", "worth.yaml", "path to the configuration file")

// Commands lists every subcommand for registration by the main package.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&tradeCmd{},
		&cashCmd{},
		&priceCmd{},
		&pnlCmd{},
		&dailyCmd{},
		&gainsCmd{},
		&valuationsCmd{},
		&balancesCmd{},
		&wapCmd{},
		&topicCmd{},
	}
}

// env is everything an executing command needs: the parsed config, the
// open ledger store, and the wired engine.
type env struct {
	cfg    *config.Config
	store  *ledgerdb.Store
	engine *worth.Engine
}

// openEnv loads the configuration and opens the ledger database. A
// missing config file is not an error: everything has a default.
func openEnv() (*env, error) {
	cfg, err := config.Load(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, config %q does not exist, using defaults", *configPath)
		cfg, err = &config.Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	ledgerPath := cfg.Ledger
	if ledgerPath == "" {
		ledgerPath = "worth.db"
	}
	store, err := ledgerdb.Open(ledgerPath, loc)
	if err != nil {
		return nil, err
	}
	markets, err := cfg.MarketMap()
	if err != nil {
		store.Close()
		return nil, err
	}

	engine := worth.NewEngine(store, worth.Fallback(cfg.FixedPrices(), store), markets, cfg.AccountMap())
	engine.Location = loc
	engine.Cache = store
	return &env{cfg: cfg, store: store, engine: engine}, nil
}

func (e *env) Close() error { return e.store.Close() }

// market returns the declared metadata for a ticker, or the stock
// default, mirroring the engine's own resolution.
func (e *env) market(ticker string) worth.Market {
	markets, err := e.cfg.MarketMap()
	if err == nil {
		if m, ok := markets.Market(ticker); ok {
			return m
		}
	}
	return worth.Market{Symbol: ticker, Exchange: "STOCK"}
}

// parseDay parses a -d style flag; empty means today in the accounting
// time zone.
func (e *env) parseDay(s string) (date.Date, error) {
	if s == "" {
		return date.FromTime(time.Now().In(mustLocation(e.cfg))), nil
	}
	return date.Parse(s)
}

// parseInstant parses a trade timestamp: "2006-01-02 15:04[:05]" or a
// bare date, read in the accounting time zone. Bare dates get noon so
// they land before any sane market-close cutoff.
func (e *env) parseInstant(s string) (time.Time, error) {
	loc := mustLocation(e.cfg)
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if d, err := date.Parse(s); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q, want \"2006-01-02\" or \"2006-01-02 15:04\"", s)
}

// nowIn is the current instant in the accounting time zone.
func nowIn(e *env) time.Time { return time.Now().In(mustLocation(e.cfg)) }

func mustLocation(cfg *config.Config) *time.Location {
	loc, err := cfg.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}
