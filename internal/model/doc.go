// Package model defines the market types shared by ingestion, the market
// table and the HTTP surface.
//
// Conventions:
//   - Prices: integer cents (1-99), as returned by the REST order book
//   - Nullable values are pointers; nil encodes as JSON null
//   - Timestamps: time.Time in UTC
package model
