package archive

// Schema creates the snapshot table and its lookup index.
const Schema = `
CREATE TABLE IF NOT EXISTS market_snapshots (
	run_id          UUID        NOT NULL,
	ticker          TEXT        NOT NULL,
	fetched_at      TIMESTAMPTZ NOT NULL,
	title           TEXT        NOT NULL,
	category        TEXT        NOT NULL,
	status          TEXT        NOT NULL,
	close_time      TIMESTAMPTZ,
	yes_bid         INTEGER,
	yes_ask         INTEGER,
	no_bid          INTEGER,
	no_ask          INTEGER,
	spread_yes      INTEGER,
	spread_no       INTEGER,
	volume          BIGINT      NOT NULL,
	open_interest   BIGINT      NOT NULL,
	last_price      INTEGER,
	orderbook_error TEXT,
	record          JSONB       NOT NULL,
	PRIMARY KEY (run_id, ticker)
);
CREATE INDEX IF NOT EXISTS market_snapshots_ticker_fetched_idx
	ON market_snapshots (ticker, fetched_at DESC);
`

const insertSnapshot = `
	INSERT INTO market_snapshots (run_id, ticker, fetched_at, title, category, status, close_time,
		yes_bid, yes_ask, no_bid, no_ask, spread_yes, spread_no,
		volume, open_interest, last_price, orderbook_error, record)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	ON CONFLICT (run_id, ticker) DO NOTHING
`
