package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent, so it runs on
// each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		address   TEXT NOT NULL DEFAULT '',
		synced_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS surveys (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		language     TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'pending'
		             CHECK(status IN ('pending','submitted','failed')),
		remote_ref   TEXT NOT NULL DEFAULT '',
		last_error   TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		submitted_at TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_surveys_project ON surveys(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_surveys_status ON surveys(status)`,

	`CREATE TABLE IF NOT EXISTS survey_fields (
		survey_id   TEXT NOT NULL REFERENCES surveys(id) ON DELETE CASCADE,
		field_id    TEXT NOT NULL,
		position    INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT ''
		            CHECK(status IN ('','checked','notRelevant')),
		risk_type   TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (survey_id, field_id)
	)`,

	`CREATE TABLE IF NOT EXISTS field_images (
		survey_id TEXT NOT NULL,
		field_id  TEXT NOT NULL,
		position  INTEGER NOT NULL,
		ref       TEXT NOT NULL,
		PRIMARY KEY (survey_id, field_id, position),
		FOREIGN KEY (survey_id, field_id)
			REFERENCES survey_fields(survey_id, field_id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS field_translations (
		survey_id TEXT NOT NULL,
		field_id  TEXT NOT NULL,
		lang      TEXT NOT NULL,
		text      TEXT NOT NULL,
		PRIMARY KEY (survey_id, field_id, lang),
		FOREIGN KEY (survey_id, field_id)
			REFERENCES survey_fields(survey_id, field_id) ON DELETE CASCADE
	)`,
}
