// Package database opens the PostgreSQL pool used by the export archive.
package database
