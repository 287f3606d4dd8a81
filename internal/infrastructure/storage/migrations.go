package storage

// Schema for the ideas table plus the votes table read by the presentation
// layer. The pipeline itself never touches votes.

const migrationsSQLite = `
CREATE TABLE IF NOT EXISTS ideas (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    idea_title TEXT NOT NULL,
    source_url TEXT NOT NULL,
    summary TEXT NOT NULL,
    language TEXT NOT NULL DEFAULT 'ko',
    source_type TEXT NOT NULL,
    published_at TIMESTAMP NOT NULL,
    archived BOOLEAN NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ideas_title ON ideas(idea_title);
CREATE INDEX IF NOT EXISTS idx_ideas_archived ON ideas(archived);
CREATE TABLE IF NOT EXISTS votes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    idea_id INTEGER NOT NULL REFERENCES ideas(id),
    user_ip TEXT NOT NULL,
    vote_type TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const migrationsPostgres = `
CREATE TABLE IF NOT EXISTS ideas (
    id BIGSERIAL PRIMARY KEY,
    idea_title TEXT NOT NULL,
    source_url TEXT NOT NULL,
    summary TEXT NOT NULL,
    language TEXT NOT NULL DEFAULT 'ko',
    source_type TEXT NOT NULL,
    published_at TIMESTAMPTZ NOT NULL,
    archived BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ideas_title ON ideas(idea_title);
CREATE INDEX IF NOT EXISTS idx_ideas_archived ON ideas(archived);
CREATE TABLE IF NOT EXISTS votes (
    id BIGSERIAL PRIMARY KEY,
    idea_id BIGINT NOT NULL REFERENCES ideas(id),
    user_ip TEXT NOT NULL,
    vote_type TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
