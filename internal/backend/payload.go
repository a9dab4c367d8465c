package backend

import (
	"time"

	"github.com/hazardhunt/tts/internal/domain"
)

// FieldPayload is the wire form of one field entry.
type FieldPayload struct {
	Description  string            `json:"description"`
	Status       string            `json:"status"`
	RiskType     string            `json:"risk_type"`
	Images       []string          `json:"images"`
	Translations map[string]string `json:"translations,omitempty"`
}

// SurveyPayload is the body of POST /surveys. Fields are keyed by field id.
type SurveyPayload struct {
	ProjectID string                  `json:"project_id"`
	Language  string                  `json:"language"`
	CreatedAt time.Time               `json:"created_at"`
	Fields    map[string]FieldPayload `json:"fields"`
}

// SubmitResponse is returned by POST /surveys.
type SubmitResponse struct {
	ID string `json:"id"`
}

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	Text string `json:"text"`
}

// RemoteProject is one entry of GET /projects.
type RemoteProject struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// RemoteSurvey is returned by GET /surveys/{id}.
type RemoteSurvey struct {
	ID        string                  `json:"id"`
	ProjectID string                  `json:"project_id"`
	Language  string                  `json:"language"`
	CreatedAt time.Time               `json:"created_at"`
	Fields    map[string]FieldPayload `json:"fields"`
}

// PayloadFromSurvey converts a stored survey into its wire form.
func PayloadFromSurvey(s *domain.Survey) SurveyPayload {
	p := SurveyPayload{
		ProjectID: s.ProjectID,
		Language:  s.Language,
		CreatedAt: s.CreatedAt.UTC(),
		Fields:    make(map[string]FieldPayload, len(s.Fields)),
	}
	for _, f := range s.Fields {
		images := f.Images
		if images == nil {
			images = []string{}
		}
		fp := FieldPayload{
			Description: f.Description,
			Status:      string(f.Status),
			RiskType:    f.RiskType,
			Images:      images,
		}
		if len(f.Translations) > 0 {
			fp.Translations = f.Translations
		}
		p.Fields[f.FieldID] = fp
	}
	return p
}

// ToDomain converts a project listing entry into a cached project.
func (p RemoteProject) ToDomain(syncedAt time.Time) *domain.Project {
	return &domain.Project{
		ID:       p.ID,
		Name:     p.Name,
		Address:  p.Address,
		SyncedAt: syncedAt,
	}
}
