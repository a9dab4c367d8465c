package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrAlreadySubmitted is returned when a submitted survey is submitted again.
	ErrAlreadySubmitted = errors.New("survey already submitted")

	// ErrNothingObserved is returned for a survey with no field marked.
	ErrNothingObserved = errors.New("survey has no observations")
)

// SurveyField is the stored form entry for one catalog field.
type SurveyField struct {
	FieldID      string
	Description  string
	Status       FieldStatus
	RiskType     string
	Images       []string
	Translations map[string]string // target language -> translated description
}

// Observed reports whether the observer marked the field or wrote anything.
func (f SurveyField) Observed() bool {
	return f.Status != FieldUnset || f.Description != "" || len(f.Images) > 0
}

// Survey is one completed risk assessment held in the local outbox.
type Survey struct {
	ID          string
	ProjectID   string
	Language    string
	Status      SurveyStatus
	RemoteRef   string
	LastError   string
	Fields      []SurveyField
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt *time.Time
}

// Validate checks the survey can be stored.
func (s *Survey) Validate() error {
	if s.ProjectID == "" {
		return fmt.Errorf("project is required")
	}
	if s.Language == "" {
		return fmt.Errorf("language is required")
	}
	for _, f := range s.Fields {
		if !ValidFieldStatuses[f.Status] {
			return fmt.Errorf("field %s: invalid status %q", f.FieldID, f.Status)
		}
	}
	if s.ObservedCount() == 0 {
		return ErrNothingObserved
	}
	return nil
}

// ObservedCount returns the number of fields the observer touched.
func (s *Survey) ObservedCount() int {
	n := 0
	for _, f := range s.Fields {
		if f.Observed() {
			n++
		}
	}
	return n
}

// Field returns the stored entry for fieldID.
func (s *Survey) Field(fieldID string) (SurveyField, bool) {
	i := slices.IndexFunc(s.Fields, func(f SurveyField) bool { return f.FieldID == fieldID })
	if i < 0 {
		return SurveyField{}, false
	}
	return s.Fields[i], true
}

// CanSubmit reports whether the survey may be handed to the backend.
func (s *Survey) CanSubmit() error {
	if s.Status == SurveySubmitted {
		return ErrAlreadySubmitted
	}
	return nil
}

// MarkSubmitted records a successful hand-off.
func (s *Survey) MarkSubmitted(remoteRef string, now time.Time) error {
	if err := s.CanSubmit(); err != nil {
		return err
	}
	s.Status = SurveySubmitted
	s.RemoteRef = remoteRef
	s.LastError = ""
	s.SubmittedAt = &now
	s.UpdatedAt = now
	return nil
}

// MarkFailed records a failed hand-off. Field data is left untouched so the
// survey can be submitted again.
func (s *Survey) MarkFailed(msg string, now time.Time) {
	s.Status = SurveyFailed
	s.LastError = msg
	s.UpdatedAt = now
}
