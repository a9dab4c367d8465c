package service

import (
	"context"

	"github.com/hazardhunt/tts/internal/app"
	"github.com/hazardhunt/tts/internal/domain"
	"github.com/hazardhunt/tts/internal/form"
	"github.com/hazardhunt/tts/internal/repository"
)

type ProjectService interface {
	// Sync replaces the local project cache with the backend listing.
	Sync(ctx context.Context) (*app.SyncResult, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
}

type SurveyService interface {
	// Save stores a completed form session in the outbox as pending.
	Save(ctx context.Context, projectID string, session *form.Session) (*domain.Survey, error)
	// Submit hands a stored survey to the backend.
	Submit(ctx context.Context, id string) (*app.SubmitResult, error)
	GetByID(ctx context.Context, id string) (*domain.Survey, error)
	List(ctx context.Context, filter repository.SurveyFilter) ([]*domain.Survey, error)
	Delete(ctx context.Context, id string) error
	// FetchRemote downloads a submitted survey from the backend.
	FetchRemote(ctx context.Context, remoteID string) (*domain.Survey, error)
}
