package storage

// Tables are only created when missing; existing schemas are left alone.

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS artists (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    bio TEXT,
    image_url TEXT
);

CREATE TABLE IF NOT EXISTS songs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    artist_id INTEGER NOT NULL REFERENCES artists(id),
    title TEXT NOT NULL,
    url TEXT,
    image_url TEXT,
    language TEXT,
    release_date TEXT,
    pageviews INTEGER DEFAULT 0,
    lyrics TEXT,
    french_lyrics TEXT,
    UNIQUE(artist_id, title)
);

CREATE INDEX IF NOT EXISTS idx_songs_artist ON songs(artist_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS artists (
    id BIGSERIAL PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    bio TEXT,
    image_url TEXT
);

CREATE TABLE IF NOT EXISTS songs (
    id BIGSERIAL PRIMARY KEY,
    artist_id BIGINT NOT NULL REFERENCES artists(id),
    title TEXT NOT NULL,
    url TEXT,
    image_url TEXT,
    language TEXT,
    release_date DATE,
    pageviews BIGINT DEFAULT 0,
    lyrics TEXT,
    french_lyrics TEXT,
    UNIQUE(artist_id, title)
);

CREATE INDEX IF NOT EXISTS idx_songs_artist ON songs(artist_id);
`

// MySQL accepts one statement per Exec unless multiStatements is set
var mysqlSchema = []string{`
CREATE TABLE IF NOT EXISTS artists (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(255) NOT NULL UNIQUE,
    bio TEXT,
    image_url TEXT
) CHARACTER SET utf8mb4`, `
CREATE TABLE IF NOT EXISTS songs (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    artist_id BIGINT NOT NULL,
    title VARCHAR(255) NOT NULL,
    url TEXT,
    image_url TEXT,
    language VARCHAR(32),
    release_date DATE NULL,
    pageviews BIGINT DEFAULT 0,
    lyrics MEDIUMTEXT,
    french_lyrics MEDIUMTEXT,
    UNIQUE KEY uq_songs_artist_title (artist_id, title),
    FOREIGN KEY (artist_id) REFERENCES artists(id)
) CHARACTER SET utf8mb4`,
}
