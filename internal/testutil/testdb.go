package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hazardhunt/tts/internal/db"
)

// NewTestDB opens an in-memory outbox database with the schema applied and
// closes it when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening in-memory outbox")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW wraps database in the production unit of work.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// CountRows counts the rows of one outbox table that belong to surveyID.
func CountRows(t *testing.T, database *sql.DB, table, surveyID string) int {
	t.Helper()
	var n int
	err := database.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE survey_id = ?`, surveyID).Scan(&n)
	require.NoError(t, err, "counting %s", table)
	return n
}
