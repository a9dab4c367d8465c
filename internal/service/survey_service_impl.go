package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/hazardhunt/tts/internal/app"
	"github.com/hazardhunt/tts/internal/backend"
	"github.com/hazardhunt/tts/internal/catalog"
	"github.com/hazardhunt/tts/internal/db"
	"github.com/hazardhunt/tts/internal/domain"
	"github.com/hazardhunt/tts/internal/form"
	"github.com/hazardhunt/tts/internal/repository"
	"github.com/hazardhunt/tts/internal/translation"
)

// SurveyOptions tunes the survey service.
type SurveyOptions struct {
	// TranslateDescriptions enables translation of non-English
	// descriptions before submission.
	TranslateDescriptions bool
	// Logger receives translation degradation warnings. Nil discards them.
	Logger *slog.Logger
}

type surveyService struct {
	surveys  repository.SurveyRepo
	projects repository.ProjectRepo
	client   backend.Client
	uow      db.UnitOfWork
	opts     SurveyOptions
	logger   *slog.Logger
	observer UseCaseObserver
	now      func() time.Time
}

func NewSurveyService(
	surveys repository.SurveyRepo,
	projects repository.ProjectRepo,
	client backend.Client,
	uow db.UnitOfWork,
	opts SurveyOptions,
	observers ...UseCaseObserver,
) SurveyService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &surveyService{
		surveys:  surveys,
		projects: projects,
		client:   client,
		uow:      uow,
		opts:     opts,
		logger:   logger,
		observer: useCaseObservers(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *surveyService) Save(ctx context.Context, projectID string, session *form.Session) (survey *domain.Survey, err error) {
	fields := map[string]any{"project": projectID}
	defer observe(ctx, s.observer, "save-survey", time.Now(), fields, &err)

	if session == nil {
		return nil, fmt.Errorf("no form session")
	}
	if _, err = s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	now := s.now()
	survey = &domain.Survey{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Language:  session.Language(),
		Status:    domain.SurveyPending,
		Fields:    session.Fields(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = survey.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSurveyRepo(tx).Create(ctx, survey)
	})
	if err != nil {
		return nil, fmt.Errorf("storing survey: %w", err)
	}

	fields["survey"] = survey.ID
	fields["observed"] = survey.ObservedCount()
	return survey, nil
}

func (s *surveyService) Submit(ctx context.Context, id string) (result *app.SubmitResult, err error) {
	fields := map[string]any{"survey": id}
	defer observe(ctx, s.observer, "submit-survey", time.Now(), fields, &err)

	survey, err := s.surveys.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = survey.CanSubmit(); err != nil {
		return nil, err
	}

	result = &app.SubmitResult{Survey: survey}
	// Translations live on a copy until the backend accepts the survey, so a
	// failed hand-off leaves stored field data exactly as it was.
	outgoing := cloneSurvey(survey)
	if s.opts.TranslateDescriptions {
		result.Translated, result.TranslationFailures = s.translateDescriptions(ctx, outgoing)
		fields["translated"] = result.Translated
		fields["translation_failures"] = result.TranslationFailures
	}

	resp, submitErr := s.client.SubmitSurvey(ctx, backend.PayloadFromSurvey(outgoing))
	if submitErr != nil {
		survey.MarkFailed(submitErr.Error(), s.now())
		if err = s.surveys.UpdateStatus(ctx, survey); err != nil {
			return nil, errors.Join(fmt.Errorf("handing off to backend: %w", submitErr), err)
		}
		return result, fmt.Errorf("handing off to backend: %w", submitErr)
	}

	if err = outgoing.MarkSubmitted(resp.ID, s.now()); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSurveys := repository.NewSQLiteSurveyRepo(tx)
		if err := txSurveys.SaveTranslations(ctx, outgoing); err != nil {
			return err
		}
		return txSurveys.UpdateStatus(ctx, outgoing)
	})
	if err != nil {
		return nil, fmt.Errorf("recording submission of %s as %s: %w", id, resp.ID, err)
	}

	fields["remote_ref"] = resp.ID
	result.Survey = outgoing
	return result, nil
}

// translateDescriptions fills in missing translations for every non-empty
// description. Failed calls are logged and the description goes out as is.
func (s *surveyService) translateDescriptions(ctx context.Context, survey *domain.Survey) (translated, failed int) {
	sel := translation.Select(survey.Language)
	if !sel.NeedsTranslation() {
		return 0, 0
	}
	for i := range survey.Fields {
		f := &survey.Fields[i]
		if f.Description == "" {
			continue
		}
		for to := range sel.Targets() {
			if _, ok := f.Translations[to]; ok {
				continue
			}
			text, err := s.client.Translate(ctx, backend.TranslateRequest{
				Text:       f.Description,
				SourceLang: sel.From,
				TargetLang: to,
			})
			if err != nil {
				failed++
				s.logger.WarnContext(ctx, "translation failed, sending original text",
					"survey", survey.ID, "field", f.FieldID, "target", to, "error", err)
				continue
			}
			if f.Translations == nil {
				f.Translations = make(map[string]string)
			}
			f.Translations[to] = text
			translated++
		}
	}
	return translated, failed
}

func (s *surveyService) GetByID(ctx context.Context, id string) (*domain.Survey, error) {
	return s.surveys.GetByID(ctx, id)
}

func (s *surveyService) List(ctx context.Context, filter repository.SurveyFilter) ([]*domain.Survey, error) {
	return s.surveys.List(ctx, filter)
}

func (s *surveyService) Delete(ctx context.Context, id string) error {
	return s.surveys.Delete(ctx, id)
}

func (s *surveyService) FetchRemote(ctx context.Context, remoteID string) (survey *domain.Survey, err error) {
	fields := map[string]any{"remote_ref": remoteID}
	defer observe(ctx, s.observer, "fetch-survey", time.Now(), fields, &err)

	remote, err := s.client.FetchSurvey(ctx, remoteID)
	if err != nil {
		return nil, fmt.Errorf("fetching survey %s: %w", remoteID, err)
	}
	return remoteToDomain(remote), nil
}

// remoteToDomain orders the keyed remote fields by the catalog of the
// survey language; ids the catalog does not know follow in sorted order.
func remoteToDomain(r *backend.RemoteSurvey) *domain.Survey {
	survey := &domain.Survey{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Language:  r.Language,
		Status:    domain.SurveySubmitted,
		RemoteRef: r.ID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.CreatedAt,
	}

	order := catalog.Select(r.Language).Keys()
	for _, id := range slices.Sorted(maps.Keys(r.Fields)) {
		if !slices.Contains(order, id) {
			order = append(order, id)
		}
	}
	for _, id := range order {
		fp, ok := r.Fields[id]
		if !ok {
			continue
		}
		images := fp.Images
		if images == nil {
			images = []string{}
		}
		survey.Fields = append(survey.Fields, domain.SurveyField{
			FieldID:      id,
			Description:  fp.Description,
			Status:       domain.FieldStatus(fp.Status),
			RiskType:     fp.RiskType,
			Images:       images,
			Translations: fp.Translations,
		})
	}
	return survey
}

func cloneSurvey(s *domain.Survey) *domain.Survey {
	c := *s
	c.Fields = make([]domain.SurveyField, len(s.Fields))
	for i, f := range s.Fields {
		f.Images = slices.Clone(f.Images)
		f.Translations = maps.Clone(f.Translations)
		c.Fields[i] = f
	}
	return &c
}
