// Package ingest builds the market table from the Kalshi REST API.
//
// A run pages through the market listing with the server cursor, then fetches
// the top of each market's order book and flattens both into
// model.MarketRecord values. Everything is sequential. Pauses between calls
// go through a Pacer so tests can run without real timers.
//
// An order book failure does not fail the run: the market is emitted as a
// degraded record with nil book fields and OrderbookError set. A listing
// failure aborts the run.
package ingest
