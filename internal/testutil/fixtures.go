package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hazardhunt/tts/internal/domain"
)

var testProjectCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithAddress(addr string) ProjectOption {
	return func(p *domain.Project) {
		p.Address = addr
	}
}

func WithProjectID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ID = id
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	n := testProjectCounter.Add(1)
	p := &domain.Project{
		ID:       fmt.Sprintf("prj-%04d", n),
		Name:     name,
		SyncedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Survey options
type SurveyOption func(*domain.Survey)

func WithLanguage(lang string) SurveyOption {
	return func(s *domain.Survey) {
		s.Language = lang
	}
}

func WithSurveyStatus(st domain.SurveyStatus) SurveyOption {
	return func(s *domain.Survey) {
		s.Status = st
	}
}

func WithCreatedAt(t time.Time) SurveyOption {
	return func(s *domain.Survey) {
		s.CreatedAt = t
		s.UpdatedAt = t
	}
}

// WithField appends a field entry to the survey.
func WithField(f domain.SurveyField) SurveyOption {
	return func(s *domain.Survey) {
		if f.Images == nil {
			f.Images = []string{}
		}
		s.Fields = append(s.Fields, f)
	}
}

// WithFields replaces the survey's field entries.
func WithFields(fields ...domain.SurveyField) SurveyOption {
	return func(s *domain.Survey) {
		s.Fields = nil
		for _, f := range fields {
			WithField(f)(s)
		}
	}
}

// NewTestSurvey builds a pending English survey with one checked field.
func NewTestSurvey(projectID string, opts ...SurveyOption) *domain.Survey {
	now := time.Now().UTC()
	s := &domain.Survey{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Language:  "en",
		Status:    domain.SurveyPending,
		Fields: []domain.SurveyField{
			{
				FieldID:     "scaffold_base",
				Description: "Base plates missing on east side",
				Status:      domain.FieldChecked,
				RiskType:    "scaffolding",
				Images:      []string{},
			},
			{
				FieldID:  "lighting",
				RiskType: "environment",
				Images:   []string{},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
