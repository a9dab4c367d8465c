package repository

import (
	"context"

	"github.com/hazardhunt/tts/internal/domain"
)

// SurveyFilter narrows SurveyRepo.List. Zero values match everything.
type SurveyFilter struct {
	ProjectID string
	Status    domain.SurveyStatus
}

type ProjectRepo interface {
	Upsert(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
}

type SurveyRepo interface {
	Create(ctx context.Context, s *domain.Survey) error
	GetByID(ctx context.Context, id string) (*domain.Survey, error)
	List(ctx context.Context, filter SurveyFilter) ([]*domain.Survey, error)
	// UpdateStatus writes the outbox columns only; field data is never touched.
	UpdateStatus(ctx context.Context, s *domain.Survey) error
	// SaveTranslations replaces the stored translations of every field in s.
	SaveTranslations(ctx context.Context, s *domain.Survey) error
	Delete(ctx context.Context, id string) error
}
