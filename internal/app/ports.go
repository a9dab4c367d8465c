package app

import (
	"context"

	"github.com/hazardhunt/tts/internal/domain"
	"github.com/hazardhunt/tts/internal/form"
)

type SyncProjectsUseCase interface {
	Sync(ctx context.Context) (*SyncResult, error)
}

type SaveSurveyUseCase interface {
	Save(ctx context.Context, projectID string, session *form.Session) (*domain.Survey, error)
}

type SubmitSurveyUseCase interface {
	Submit(ctx context.Context, id string) (*SubmitResult, error)
}

type FetchSurveyUseCase interface {
	FetchRemote(ctx context.Context, remoteID string) (*domain.Survey, error)
}
