package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Each craft is stored as a BSON document
// keyed by its hex ObjectID.
const schema = `
CREATE TABLE IF NOT EXISTS crafts (
    id         TEXT PRIMARY KEY,
    doc        BLOB NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables and indexes if they don't already exist and
// applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return migrate(db)
}
