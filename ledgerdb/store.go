// Package ledgerdb persists the trade and cash ledger, price closes and
// the daily PnL cache in a single sqlite database. It implements the
// engine's LedgerReader, PriceSource and SnapshotCache interfaces.
package ledgerdb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/worthtracker/worth"
	"github.com/worthtracker/worth/date"
)

// Store is an open ledger database. It is safe for use by one process;
// sqlite serializes writers itself.
type Store struct {
	db  *sql.DB
	loc *time.Location
}

// Open opens (creating if needed) the ledger database at path and
// applies the schema. The location is the accounting time zone used for
// as-of cutoffs; nil means UTC. Use ":memory:" for an ephemeral store.
func Open(path string, loc *time.Location) (*Store, error) {
	if loc == nil {
		loc = time.UTC
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger db %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not apply schema: %w", err)
	}
	return &Store{db: db, loc: loc}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveTrade inserts the trade, or amends the existing row carrying the
// same non-empty ExternalID when a broker feed re-sends a fill. New
// rows are minted a ULID.
func (s *Store) SaveTrade(t worth.Trade) error {
	if t.Time.IsZero() {
		return &worth.MalformedTradeError{Account: t.Account, Ticker: t.Ticker, Reason: "zero timestamp"}
	}
	at := t.Time.UTC().Format(time.RFC3339Nano)
	if t.ExternalID != "" {
		res, err := s.db.Exec(`
			UPDATE trades SET account=?, ticker=?, at=?, quantity=?, price=?, commission=?, reinvest=?, note=?
			WHERE external_id=?`,
			t.Account, t.Ticker, at, t.Quantity.String(), t.Price.String(), t.Commission.String(),
			boolInt(t.Reinvest), t.Note, t.ExternalID)
		if err != nil {
			return fmt.Errorf("could not amend trade %q: %w", t.ExternalID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
	}
	_, err := s.db.Exec(`
		INSERT INTO trades (id, external_id, account, ticker, at, quantity, price, commission, reinvest, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ulid.Make().String(), t.ExternalID, t.Account, t.Ticker, at,
		t.Quantity.String(), t.Price.String(), t.Commission.String(), boolInt(t.Reinvest), t.Note)
	if err != nil {
		return fmt.Errorf("could not insert trade: %w", err)
	}
	return nil
}

// Trades implements worth.LedgerReader.
func (s *Store) Trades(f worth.TradeFilter) ([]worth.Trade, error) {
	query := `SELECT external_id, account, ticker, at, quantity, price, commission, reinvest, note FROM trades WHERE 1=1`
	var args []any
	if f.Account != "" {
		query += ` AND account = ?`
		args = append(args, f.Account)
	}
	if f.Ticker != "" {
		query += ` AND ticker = ?`
		args = append(args, f.Ticker)
	}
	if !f.AsOf.IsZero() {
		query += ` AND at < ?`
		args = append(args, s.cutoff(f.AsOf))
	}
	query += ` ORDER BY at, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not read trades: %w", err)
	}
	defer rows.Close()

	var out []worth.Trade
	for rows.Next() {
		var t worth.Trade
		var at, quantity, price, commission string
		var reinvest int
		if err := rows.Scan(&t.ExternalID, &t.Account, &t.Ticker, &at, &quantity, &price, &commission, &reinvest, &t.Note); err != nil {
			return nil, err
		}
		if t.Time, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("corrupt trade timestamp %q: %w", at, err)
		}
		if t.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("corrupt quantity %q: %w", quantity, err)
		}
		if t.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("corrupt price %q: %w", price, err)
		}
		if t.Commission, err = decimal.NewFromString(commission); err != nil {
			return nil, fmt.Errorf("corrupt commission %q: %w", commission, err)
		}
		t.Reinvest = reinvest != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

// AddCashRecord inserts a cash record.
func (s *Store) AddCashRecord(c worth.CashRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO cash_records (id, account, day, category, description, amount, cleared, ignored)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ulid.Make().String(), c.Account, c.Date.String(), c.Category, c.Description,
		c.Amount.String(), boolInt(c.Cleared), boolInt(c.Ignored))
	if err != nil {
		return fmt.Errorf("could not insert cash record: %w", err)
	}
	return nil
}

// CashRecords implements worth.LedgerReader. Ignored records are
// excluded at the query level.
func (s *Store) CashRecords(f worth.CashFilter) ([]worth.CashRecord, error) {
	query := `SELECT account, day, category, description, amount, cleared FROM cash_records WHERE ignored = 0`
	var args []any
	if f.Account != "" {
		query += ` AND account = ?`
		args = append(args, f.Account)
	}
	if !f.AsOf.IsZero() {
		query += ` AND day <= ?`
		args = append(args, f.AsOf.String())
	}
	query += ` ORDER BY day, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not read cash records: %w", err)
	}
	defer rows.Close()

	var out []worth.CashRecord
	for rows.Next() {
		var c worth.CashRecord
		var day, amount string
		var cleared int
		if err := rows.Scan(&c.Account, &day, &c.Category, &c.Description, &amount, &cleared); err != nil {
			return nil, err
		}
		if c.Date, err = date.Parse(day); err != nil {
			return nil, fmt.Errorf("corrupt cash record date %q: %w", day, err)
		}
		if c.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt cash amount %q: %w", amount, err)
		}
		c.Cleared = cleared != 0
		out = append(out, c)
	}
	return out, rows.Err()
}

// CashSums returns the total and cleared-only cash record sums of an
// account, ignored records excluded. Comparing the two against the
// broker statement is the usual way to spot uncleared movements.
func (s *Store) CashSums(account string, asof date.Date) (total, cleared decimal.Decimal, err error) {
	records, err := s.CashRecords(worth.CashFilter{Account: account, AsOf: asof})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	for _, c := range records {
		total = total.Add(c.Amount)
		if c.Cleared {
			cleared = cleared.Add(c.Amount)
		}
	}
	return total, cleared, nil
}

// AddPrice records the closing price of a ticker on a day, overwriting
// any previous close for that day.
func (s *Store) AddPrice(ticker string, on date.Date, close float64) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO prices (ticker, day, close) VALUES (?, ?, ?)`,
		ticker, on.String(), close)
	if err != nil {
		return fmt.Errorf("could not insert price: %w", err)
	}
	return nil
}

// Price implements worth.PriceSource: the close on the given day, or
// the most recent prior close.
func (s *Store) Price(ticker string, on date.Date) (decimal.Decimal, error) {
	on = date.MostRecentBusinessDay(on)
	var close float64
	err := s.db.QueryRow(`SELECT close FROM prices WHERE ticker = ? AND day <= ? ORDER BY day DESC LIMIT 1`,
		ticker, on.String()).Scan(&close)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, &worth.MissingPriceError{Ticker: ticker, On: on}
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not read price: %w", err)
	}
	return decimal.NewFromFloat(close), nil
}

// DailyPnL implements worth.SnapshotCache.
func (s *Store) DailyPnL(account string, on date.Date) (decimal.Decimal, bool) {
	var pnl string
	err := s.db.QueryRow(`SELECT pnl FROM daily_pnl WHERE account = ? AND day = ?`,
		account, on.String()).Scan(&pnl)
	if err != nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(pnl)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// PutDailyPnL implements worth.SnapshotCache with insert-if-absent
// semantics: concurrent writers of the same missing day converge on the
// first value instead of racing.
func (s *Store) PutDailyPnL(account string, on date.Date, pnl decimal.Decimal) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO daily_pnl (account, day, pnl) VALUES (?, ?, ?)`,
		account, on.String(), pnl.String())
	if err != nil {
		return fmt.Errorf("could not cache daily pnl: %w", err)
	}
	return nil
}

// RecordWorth appends one total-worth observation to the history,
// keeping the first value recorded for a day.
func (s *Store) RecordWorth(on date.Date, total worth.Money) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO worth_history (day, total) VALUES (?, ?)`,
		on.String(), total.Amount().String())
	if err != nil {
		return fmt.Errorf("could not record worth: %w", err)
	}
	return nil
}

// WorthHistory returns the recorded total-worth series in day order.
func (s *Store) WorthHistory() (*date.History[float64], error) {
	rows, err := s.db.Query(`SELECT day, total FROM worth_history ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("could not read worth history: %w", err)
	}
	defer rows.Close()

	h := &date.History[float64]{}
	for rows.Next() {
		var day, total string
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, fmt.Errorf("corrupt worth day %q: %w", day, err)
		}
		amount, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("corrupt worth total %q: %w", total, err)
		}
		h.Append(on, amount.InexactFloat64())
	}
	return h, rows.Err()
}

// cutoff formats the first instant after the as-of date in the
// accounting time zone, in the UTC text form timestamps are stored in.
func (s *Store) cutoff(asof date.Date) string {
	next := asof.Add(1)
	t := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, s.loc)
	return t.UTC().Format(time.RFC3339Nano)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
