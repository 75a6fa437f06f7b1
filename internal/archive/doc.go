// Package archive appends each completed ingestion run to PostgreSQL.
//
// Rows go to market_snapshots keyed by (run_id, ticker), written with
// pgx batches and ON CONFLICT DO NOTHING so a repeated write of the same run
// is harmless. The archive is write-only: the market table is never
// restored from it.
package archive
