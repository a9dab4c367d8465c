package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "surveys", "survey_fields", "field_images", "field_translations"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_surveys_project", "idx_surveys_status"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_StatusConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, synced_at) VALUES ('p1', 'Site', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO surveys (id, project_id, language, status, created_at, updated_at)
		VALUES ('s1', 'p1', 'fi', 'archived', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown survey status must be rejected")

	_, err = db.Exec(`INSERT INTO surveys (id, project_id, language, created_at, updated_at)
		VALUES ('s1', 'p1', 'fi', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO survey_fields (survey_id, field_id, position, status) VALUES ('s1', 'lighting', 0, 'ok')`)
	assert.Error(t, err, "unknown field status must be rejected")
}

func TestMigrate_CascadeDeletesChildren(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO projects (id, name, synced_at) VALUES ('p1', 'Site', '2026-01-01T00:00:00Z')`,
		`INSERT INTO surveys (id, project_id, language, created_at, updated_at) VALUES ('s1', 'p1', 'fi', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		`INSERT INTO survey_fields (survey_id, field_id, position) VALUES ('s1', 'lighting', 0)`,
		`INSERT INTO field_images (survey_id, field_id, position, ref) VALUES ('s1', 'lighting', 0, 'a.jpg')`,
		`INSERT INTO field_translations (survey_id, field_id, lang, text) VALUES ('s1', 'lighting', 'en', 'dark')`,
		`DELETE FROM surveys WHERE id = 's1'`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}

	for _, table := range []string{"survey_fields", "field_images", "field_translations"} {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, table)
	}
}
