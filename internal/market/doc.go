// Package market holds the in-memory market table.
//
// The table is a snapshot of the last successful ingestion run. It is
// replaced wholesale by the refresher and read concurrently by the HTTP
// handlers and the CLI. Nothing here is persisted; a restart starts empty.
package market
