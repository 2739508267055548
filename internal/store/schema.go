package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS save_details (
    game_id              TEXT NOT NULL,
    folder               TEXT NOT NULL,
    save_id              TEXT NOT NULL,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    name                 TEXT,
    summary              TEXT,
    image                TEXT,
    extra                TEXT,
    parsed_at            TEXT NOT NULL,
    PRIMARY KEY (game_id, folder, save_id)
);

CREATE INDEX IF NOT EXISTS idx_save_details_folder ON save_details(game_id, folder);
`
