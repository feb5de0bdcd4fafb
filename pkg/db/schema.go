package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Monthly API spend, one row per calendar month
CREATE TABLE IF NOT EXISTS budget_months (
    month TEXT PRIMARY KEY,              -- YYYY-MM
    total_spend REAL NOT NULL DEFAULT 0,
    runs INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Named counters bucketed by time window (day or hour)
CREATE TABLE IF NOT EXISTS usage_counters (
    name TEXT NOT NULL,                  -- e.g. "briefing_runs", "news_fetches"
    window TEXT NOT NULL,                -- YYYY-MM-DD or YYYY-MM-DD HH
    count INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (name, window)
);

-- Titles of delivered ideas, used for cross-run deduplication
CREATE TABLE IF NOT EXISTS idea_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    source TEXT,
    seen_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_history_seen ON idea_history(seen_at);
`
