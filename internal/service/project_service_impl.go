package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hazardhunt/tts/internal/app"
	"github.com/hazardhunt/tts/internal/backend"
	"github.com/hazardhunt/tts/internal/db"
	"github.com/hazardhunt/tts/internal/domain"
	"github.com/hazardhunt/tts/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	client   backend.Client
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewProjectService(
	projects repository.ProjectRepo,
	client backend.Client,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		projects: projects,
		client:   client,
		uow:      uow,
		observer: useCaseObservers(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *projectService) Sync(ctx context.Context) (result *app.SyncResult, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "sync-projects", time.Now(), fields, &err)

	remote, err := s.client.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing remote projects: %w", err)
	}

	syncedAt := s.now()
	projects := make([]*domain.Project, 0, len(remote))
	for _, rp := range remote {
		if rp.ID == "" {
			return nil, fmt.Errorf("%w: project without id", backend.ErrInvalidResponse)
		}
		projects = append(projects, rp.ToDomain(syncedAt))
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		for _, p := range projects {
			if err := txProjects.Upsert(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("caching projects: %w", err)
	}

	fields["count"] = len(projects)
	return &app.SyncResult{Projects: projects, SyncedAt: syncedAt}, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}
