package ledgerdb

// schema is applied on every open; all statements are idempotent.
//
// Decimals are stored as text to round-trip exactly. Timestamps are
// RFC3339 in UTC so lexical order is chronological order. daily_pnl and
// worth_history are append-only caches: writers insert-if-absent, past
// values are never overwritten.
const schema = `
CREATE TABLE IF NOT EXISTS trades (
	id          TEXT PRIMARY KEY,
	external_id TEXT,
	account     TEXT NOT NULL,
	ticker      TEXT NOT NULL,
	at          TEXT NOT NULL,
	quantity    TEXT NOT NULL,
	price       TEXT NOT NULL,
	commission  TEXT NOT NULL DEFAULT '0',
	reinvest    INTEGER NOT NULL DEFAULT 0,
	note        TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS trades_external_id ON trades(external_id) WHERE external_id != '';
CREATE INDEX IF NOT EXISTS trades_account_ticker ON trades(account, ticker, at);

CREATE TABLE IF NOT EXISTS cash_records (
	id          TEXT PRIMARY KEY,
	account     TEXT NOT NULL,
	day         TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	amount      TEXT NOT NULL,
	cleared     INTEGER NOT NULL DEFAULT 0,
	ignored     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS cash_records_account ON cash_records(account, day);

CREATE TABLE IF NOT EXISTS prices (
	ticker TEXT NOT NULL,
	day    TEXT NOT NULL,
	close  REAL NOT NULL,
	PRIMARY KEY (ticker, day)
);

CREATE TABLE IF NOT EXISTS daily_pnl (
	account TEXT NOT NULL,
	day     TEXT NOT NULL,
	pnl     TEXT NOT NULL,
	PRIMARY KEY (account, day)
);

CREATE TABLE IF NOT EXISTS worth_history (
	day   TEXT PRIMARY KEY,
	total TEXT NOT NULL
);
`
