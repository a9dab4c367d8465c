package app

import (
	"time"

	"github.com/hazardhunt/tts/internal/domain"
)

// SyncResult summarizes one project cache refresh.
type SyncResult struct {
	Projects []*domain.Project
	SyncedAt time.Time
}

// SubmitResult is the outcome of handing a survey to the backend.
type SubmitResult struct {
	Survey *domain.Survey
	// Translated counts descriptions translated before submission.
	Translated int
	// TranslationFailures counts descriptions sent untranslated because
	// the translate call failed.
	TranslationFailures int
}
