package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hazardhunt/tts/internal/backend"
	"github.com/hazardhunt/tts/internal/repository"
	"github.com/hazardhunt/tts/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Sync(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProjectRepo(database)
	fake := testutil.NewFakeBackend()
	fake.Projects = []backend.RemoteProject{
		{ID: "p2", Name: "School", Address: "Koulukatu 1"},
		{ID: "p1", Name: "Harbour Tower"},
	}
	obs := &recordingObserver{}
	svc := NewProjectService(repo, fake, testutil.NewTestUoW(database), obs)
	ctx := context.Background()

	res, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Projects, 2)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Harbour Tower", list[0].Name)

	p, err := svc.GetByID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Koulukatu 1", p.Address)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "sync-projects", obs.events[0].Name)
	assert.Equal(t, 2, obs.events[0].Fields["count"])
}

func TestProjectService_Sync_BackendError(t *testing.T) {
	database := testutil.NewTestDB(t)
	fake := testutil.NewFakeBackend()
	fake.ListErr = backend.ErrTimeout
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), fake, testutil.NewTestUoW(database))

	_, err := svc.Sync(context.Background())
	assert.ErrorIs(t, err, backend.ErrTimeout)
}

func TestProjectService_Sync_RollsBackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteProjectRepo(database)
	fake := testutil.NewFakeBackend()
	fake.Projects = []backend.RemoteProject{
		{ID: "p1", Name: "One"},
		{ID: "p2", Name: "Two"},
	}
	boom := errors.New("disk full")
	uow := &testutil.FailingUoW{DB: database, FailOn: 2, Err: boom}
	svc := NewProjectService(repo, fake, uow)

	_, err := svc.Sync(context.Background())
	require.ErrorIs(t, err, boom)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProjectService_Sync_RejectsProjectWithoutID(t *testing.T) {
	database := testutil.NewTestDB(t)
	fake := testutil.NewFakeBackend()
	fake.Projects = []backend.RemoteProject{{Name: "Anonymous"}}
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), fake, testutil.NewTestUoW(database))

	_, err := svc.Sync(context.Background())
	assert.ErrorIs(t, err, backend.ErrInvalidResponse)
}
