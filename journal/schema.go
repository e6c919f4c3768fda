package journal

const Schema = `
CREATE TABLE IF NOT EXISTS renders (
	id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	series_key TEXT NOT NULL,
	title TEXT NOT NULL,
	series INTEGER NOT NULL,
	points INTEGER NOT NULL,
	from_time DATETIME NOT NULL,
	to_time DATETIME NOT NULL,
	y_max REAL NOT NULL,
	format TEXT NOT NULL,
	duration_ns INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_renders_time ON renders(time);

CREATE TABLE IF NOT EXISTS prices (
	series_key TEXT NOT NULL,
	date TEXT NOT NULL,
	close REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_prices_key ON prices(series_key);
`
