package db

// schema is the full database schema.
//
// item_requests.item_id intentionally has no foreign key: approving a
// remove request deletes the item while the request keeps referencing it,
// and the dangling reference is tolerated at display time.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id                 INTEGER PRIMARY KEY,
    name               TEXT NOT NULL,
    description        TEXT,
    category           TEXT,
    barcode            TEXT UNIQUE,
    serial_number      TEXT,
    storage_location   TEXT,
    notes              TEXT,
    image_url          TEXT,
    image              BLOB,
    image_mime         TEXT,
    is_checked_out     INTEGER NOT NULL DEFAULT 0,
    checked_out_by     TEXT,
    checked_out_date   DATETIME,
    created_date       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_modified_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS checkout_history (
    id          INTEGER PRIMARY KEY,
    item_id     INTEGER NOT NULL REFERENCES items(id),
    action      TEXT NOT NULL CHECK (action IN ('checkout', 'checkin')),
    person_name TEXT NOT NULL,
    timestamp   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    notes       TEXT
);

CREATE INDEX IF NOT EXISTS idx_checkout_history_item
    ON checkout_history(item_id, timestamp);

CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name     TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'member'
                  CHECK (role IN ('member', 'admin', 'quartermaster')),
    is_active     INTEGER NOT NULL DEFAULT 1,
    created_date  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_login    DATETIME
);

CREATE TABLE IF NOT EXISTS item_requests (
    id             INTEGER PRIMARY KEY,
    requester_id   INTEGER NOT NULL REFERENCES users(id),
    request_type   TEXT NOT NULL CHECK (request_type IN ('add_item', 'remove_item')),
    item_name      TEXT NOT NULL,
    description    TEXT NOT NULL,
    item_id        INTEGER,
    status         TEXT NOT NULL DEFAULT 'pending'
                   CHECK (status IN ('pending', 'approved', 'denied')),
    denial_reason  TEXT,
    created_date   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    reviewed_date  DATETIME,
    reviewed_by_id INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS categories (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL UNIQUE,
    created_by_id INTEGER NOT NULL REFERENCES users(id),
    created_date  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS locations (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL UNIQUE,
    created_by_id INTEGER NOT NULL REFERENCES users(id),
    created_date  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
