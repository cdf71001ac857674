package store

// Schema v1 - the original flat layout: one version row per physical file,
// with its audio metadata inlined. Kept verbatim so the v2 migration always
// starts from the shape it expects.
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Capability-handle indirection registry. Records never hold raw handles;
-- they hold these keys.
CREATE TABLE IF NOT EXISTS handles (
  key TEXT PRIMARY KEY,
  path TEXT UNIQUE NOT NULL,
  kind TEXT NOT NULL DEFAULT 'file',
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Songs, each rooted at one scanned folder
CREATE TABLE IF NOT EXISTS songs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  folder_key TEXT NOT NULL REFERENCES handles(key),
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Flat versions: one row per file (replaced by the grouped layout in v2)
CREATE TABLE IF NOT EXISTS versions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  song_id INTEGER NOT NULL REFERENCES songs(id),
  handle_key TEXT NOT NULL,
  file_name TEXT NOT NULL,
  rating INTEGER,
  duration REAL,
  bitrate INTEGER,
  format TEXT,
  created_at DATETIME,
  modified_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_versions_song ON versions(song_id);

-- Tags have their own lifecycle, linked many-to-many to versions
CREATE TABLE IF NOT EXISTS tags (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT UNIQUE NOT NULL,
  color TEXT NOT NULL DEFAULT '#808080'
);

CREATE TABLE IF NOT EXISTS version_tags (
  version_id INTEGER NOT NULL,
  tag_id INTEGER NOT NULL,
  PRIMARY KEY (version_id, tag_id)
);

CREATE INDEX IF NOT EXISTS idx_version_tags_tag ON version_tags(tag_id);

-- Timestamped rich-text notes, owned by a version
CREATE TABLE IF NOT EXISTS notes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  version_id INTEGER NOT NULL,
  content TEXT NOT NULL DEFAULT '',
  timestamp REAL,
  created_at DATETIME,
  updated_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_notes_version ON notes(version_id);

-- Images attached to a version, stored under the images folder
CREATE TABLE IF NOT EXISTS images (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  version_id INTEGER NOT NULL,
  file_name TEXT NOT NULL,
  caption TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_images_version ON images(version_id);

-- Singleton settings row
CREATE TABLE IF NOT EXISTS settings (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  images_folder_key TEXT
);
`

// Schema v2 - the grouped versions table created by migrateGroupedVersions.
// formats is a JSON array; selected_format indexes into it.
const schemaV2Versions = `
CREATE TABLE versions_grouped (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  song_id INTEGER NOT NULL REFERENCES songs(id),
  version_name TEXT NOT NULL,
  formats TEXT NOT NULL,
  selected_format INTEGER NOT NULL DEFAULT 0,
  duration_mismatch INTEGER NOT NULL DEFAULT 0,
  rating INTEGER,
  created_at DATETIME,
  modified_at DATETIME,
  UNIQUE (song_id, version_name)
);

CREATE INDEX idx_versions_grouped_song ON versions_grouped(song_id);
`

// Schema v3 - per-song sort preference
const schemaV3 = `
ALTER TABLE songs ADD COLUMN sort_preference TEXT NOT NULL DEFAULT 'created';
`
