// Package server exposes the process status and a read-only view of the
// market table over HTTP.
//
// Routes:
//
//	GET /api/status          process status and build info
//	GET /api/markets         records, filtered by category, min_volume,
//	                         max_spread_yes and has_liquidity query params
//	GET /api/markets/stats   table statistics, 404 when the table is empty
//	GET /api/markets/export  every record plus statistics
//	GET /api/markets/random  one random record with full liquidity
//	GET /api/markets/stream  websocket; one JSON event per table refresh
//	GET /health              table and archive health
package server
