// Package worth implements the position and PnL computation engine of a
// personal multi-account investment tracker.
//
// The engine turns a raw ledger of trades and cash movements into
// point-in-time positions, weighted-average cost bases, realized and
// unrealized profit-and-loss, and a gap-free daily mark-to-market series.
// It is a library: storage, price feeds and the reporting surface are
// consumed through the narrow LedgerReader, PriceSource, MarketResolver
// and AccountResolver interfaces.
//
// All results are recomputed on demand from the trade history; derived
// positions are never stored durably. The only persisted derivative is
// the append-only daily PnL cache, written through SnapshotCache with
// insert-if-absent semantics so historical reports stay stable.
package worth
