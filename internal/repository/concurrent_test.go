package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazardhunt/tts/internal/db"
	"github.com/hazardhunt/tts/internal/domain"
	"github.com/hazardhunt/tts/internal/testutil"
)

// newConcurrentTestDB opens a file-backed database. Unlike :memory: it is
// shared by every pooled connection, so goroutines really run in parallel.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// Readers listing the outbox while surveys are written must only ever see
// complete surveys: every field row committed with its survey.
func TestConcurrentAccess_ListDuringCreate(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	proj := seedProject(t, NewSQLiteProjectRepo(database))
	uow := db.NewSQLiteUnitOfWork(database)
	repo := NewSQLiteSurveyRepo(database)

	const writes = 20
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range writes {
			s := testutil.NewTestSurvey(proj.ID,
				testutil.WithCreatedAt(time.Date(2026, 3, 1, 8, i, 0, 0, time.UTC)))
			err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				return NewSQLiteSurveyRepo(tx).Create(ctx, s)
			})
			if err != nil {
				t.Errorf("writer: create survey %d: %v", i, err)
				return
			}
		}
	}()

	for r := range 5 {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for range 10 {
				surveys, err := repo.List(ctx, SurveyFilter{ProjectID: proj.ID})
				if err != nil {
					t.Errorf("reader %d: list surveys: %v", reader, err)
					return
				}
				for _, s := range surveys {
					if len(s.Fields) != 2 {
						t.Errorf("reader %d: survey %s has %d fields", reader, s.ID, len(s.Fields))
					}
				}
			}
		}(r)
	}

	wg.Wait()

	surveys, err := repo.List(ctx, SurveyFilter{})
	require.NoError(t, err)
	assert.Len(t, surveys, writes)
}

// Status updates on different surveys do not interfere.
func TestConcurrentAccess_UpdateStatus(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	proj := seedProject(t, NewSQLiteProjectRepo(database))
	repo := NewSQLiteSurveyRepo(database)

	const count = 10
	surveys := make([]*domain.Survey, count)
	for i := range surveys {
		surveys[i] = testutil.NewTestSurvey(proj.ID)
		require.NoError(t, repo.Create(ctx, surveys[i]))
	}

	var wg sync.WaitGroup
	for i, s := range surveys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			now := time.Now().UTC()
			if i%2 == 0 {
				if err := s.MarkSubmitted("remote-"+s.ID[:8], now); err != nil {
					t.Errorf("mark submitted: %v", err)
					return
				}
			} else {
				s.MarkFailed("backend unavailable", now)
			}
			// The busy timeout in the DSN serializes competing writers.
			if err := repo.UpdateStatus(ctx, s); err != nil {
				t.Errorf("update %s: %v", s.ID, err)
			}
		}()
	}
	wg.Wait()

	submitted, err := repo.List(ctx, SurveyFilter{Status: domain.SurveySubmitted})
	require.NoError(t, err)
	assert.Len(t, submitted, count/2)

	failed, err := repo.List(ctx, SurveyFilter{Status: domain.SurveyFailed})
	require.NoError(t, err)
	assert.Len(t, failed, count/2)
	for _, s := range failed {
		assert.Equal(t, "backend unavailable", s.LastError)
		assert.Len(t, s.Fields, 2)
	}
}
