package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hazardhunt/tts/internal/backend"
	"github.com/hazardhunt/tts/internal/domain"
	"github.com/hazardhunt/tts/internal/form"
	"github.com/hazardhunt/tts/internal/i18n"
	"github.com/hazardhunt/tts/internal/repository"
	"github.com/hazardhunt/tts/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

type surveyFixture struct {
	svc      SurveyService
	surveys  *repository.SQLiteSurveyRepo
	fake     *testutil.FakeBackend
	project  *domain.Project
	observer *recordingObserver
	tr       *i18n.Translator
}

func newSurveyFixture(t *testing.T, translate bool) *surveyFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	surveys := repository.NewSQLiteSurveyRepo(database)

	proj := testutil.NewTestProject("Harbour Tower")
	require.NoError(t, projects.Upsert(context.Background(), proj))

	tr, err := i18n.New(nil)
	require.NoError(t, err)

	fake := testutil.NewFakeBackend()
	obs := &recordingObserver{}
	svc := NewSurveyService(surveys, projects, fake, testutil.NewTestUoW(database),
		SurveyOptions{TranslateDescriptions: translate}, obs)

	return &surveyFixture{svc: svc, surveys: surveys, fake: fake, project: proj, observer: obs, tr: tr}
}

func (f *surveyFixture) session(t *testing.T, lang string) *form.Session {
	t.Helper()
	s := form.NewSession(lang, f.tr)
	require.NoError(t, s.Update("edge_protection", form.FieldStatus, "checked"))
	require.NoError(t, s.Update("edge_protection", form.FieldDescription, "Kaide puuttuu"))
	require.NoError(t, s.AttachImage("edge_protection", "photo-1.jpg"))
	require.NoError(t, s.Update("lighting", form.FieldStatus, domain.FieldNotRelevant))
	return s
}

func TestSurveyService_Save(t *testing.T) {
	f := newSurveyFixture(t, true)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, f.project.ID, f.session(t, "fi"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, domain.SurveyPending, saved.Status)
	assert.Equal(t, "fi", saved.Language)

	got, err := f.surveys.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	edge, ok := got.Field("edge_protection")
	require.True(t, ok)
	assert.Equal(t, domain.FieldChecked, edge.Status)
	assert.Equal(t, "putoamissuojaus", edge.RiskType)
	assert.Equal(t, []string{"photo-1.jpg"}, edge.Images)
	assert.Equal(t, 2, got.ObservedCount())

	require.NotEmpty(t, f.observer.events)
	assert.Equal(t, "save-survey", f.observer.events[0].Name)
	assert.True(t, f.observer.events[0].Success)
}

func TestSurveyService_Save_UnknownProject(t *testing.T) {
	f := newSurveyFixture(t, true)

	_, err := f.svc.Save(context.Background(), "nope", f.session(t, "en"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSurveyService_Save_NothingObserved(t *testing.T) {
	f := newSurveyFixture(t, true)

	_, err := f.svc.Save(context.Background(), f.project.ID, form.NewSession("en", f.tr))
	assert.ErrorIs(t, err, domain.ErrNothingObserved)

	all, err := f.svc.List(context.Background(), repository.SurveyFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSurveyService_Submit_English_NoTranslation(t *testing.T) {
	f := newSurveyFixture(t, true)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, f.project.ID, f.session(t, "en"))
	require.NoError(t, err)

	res, err := f.svc.Submit(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SurveySubmitted, res.Survey.Status)
	assert.Equal(t, "remote-1", res.Survey.RemoteRef)
	assert.Zero(t, res.Translated)
	assert.Empty(t, f.fake.TranslateCalls)

	require.Len(t, f.fake.Submitted, 1)
	payload := f.fake.Submitted[0]
	assert.Equal(t, f.project.ID, payload.ProjectID)
	assert.Equal(t, "fall protection", payload.Fields["edge_protection"].RiskType)
	assert.Nil(t, payload.Fields["edge_protection"].Translations)

	got, err := f.surveys.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SurveySubmitted, got.Status)
	require.NotNil(t, got.SubmittedAt)
}

func TestSurveyService_Submit_Finnish_TranslatesDescriptions(t *testing.T) {
	f := newSurveyFixture(t, true)
	f.fake.Translations["Kaide puuttuu"] = "Railing missing"
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, f.project.ID, f.session(t, "fi"))
	require.NoError(t, err)

	res, err := f.svc.Submit(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Translated)

	require.Len(t, f.fake.TranslateCalls, 1)
	assert.Equal(t, backend.TranslateRequest{Text: "Kaide puuttuu", SourceLang: "fi", TargetLang: "en"}, f.fake.TranslateCalls[0])
	assert.Equal(t, map[string]string{"en": "Railing missing"}, f.fake.Submitted[0].Fields["edge_protection"].Translations)

	got, err := f.surveys.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	edge, _ := got.Field("edge_protection")
	assert.Equal(t, "Railing missing", edge.Translations["en"])
}

func TestSurveyService_Submit_TranslationDisabled(t *testing.T) {
	f := newSurveyFixture(t, false)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, f.project.ID, f.session(t, "fi"))
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, saved.ID)
	require.NoError(t, err)
	assert.Empty(t, f.fake.TranslateCalls)
}

func TestSurveyService_Submit_TranslationFailureDegrades(t *testing.T) {
	f := newSurveyFixture(t, true)
	f.fake.TranslateErr = backend.ErrUnavailable
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, f.project.ID, f.session(t, "fi"))
	require.NoError(t, err)

	res, err := f.svc.Submit(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TranslationFailures)
	assert.Equal(t, domain.SurveySubmitted, res.Survey.Status)
	assert.Equal(t, "Kaide puuttuu", f.fake.Submitted[0].Fields["edge_protection"].Description)
	assert.Nil(t, f.fake.Submitted[0].Fields["edge_protection"].Translations)
}

func TestSurveyService_Submit_FailureKeepsFieldData(t *testing.T) {
	f := newSurveyFixture(t, true)
	f.fake.SubmitErr = backend.ErrUnavailable
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, f.project.ID, f.session(t, "fi"))
	require.NoError(t, err)
	before, err := f.surveys.GetByID(ctx, saved.ID)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, saved.ID)
	require.ErrorIs(t, err, backend.ErrUnavailable)

	after, err := f.surveys.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SurveyFailed, after.Status)
	assert.Contains(t, after.LastError, "unavailable")
	assert.Equal(t, before.Fields, after.Fields)

	last := f.observer.events[len(f.observer.events)-1]
	assert.Equal(t, "submit-survey", last.Name)
	assert.False(t, last.Success)

	// Re-submit once the backend recovers.
	f.fake.SubmitErr = nil
	res, err := f.svc.Submit(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SurveySubmitted, res.Survey.Status)
	assert.Empty(t, res.Survey.LastError)
}

func TestSurveyService_Submit_AlreadySubmitted(t *testing.T) {
	f := newSurveyFixture(t, true)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, f.project.ID, f.session(t, "en"))
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, saved.ID)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, saved.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.Len(t, f.fake.Submitted, 1)
}

func TestSurveyService_Submit_NotFound(t *testing.T) {
	f := newSurveyFixture(t, true)

	_, err := f.svc.Submit(context.Background(), "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestSurveyService_FetchRemote_OrdersByCatalog(t *testing.T) {
	f := newSurveyFixture(t, true)
	created := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	f.fake.Surveys["r-9"] = &backend.RemoteSurvey{
		ID:        "r-9",
		ProjectID: f.project.ID,
		Language:  "en",
		CreatedAt: created,
		Fields: map[string]backend.FieldPayload{
			"lighting":      {Status: "notRelevant", RiskType: "environment"},
			"zz_custom":     {Status: "checked", RiskType: "other"},
			"scaffold_base": {Status: "checked", Description: "ok", Images: []string{"x.jpg"}},
		},
	}

	got, err := f.svc.FetchRemote(context.Background(), "r-9")
	require.NoError(t, err)
	require.Len(t, got.Fields, 3)
	assert.Equal(t, "scaffold_base", got.Fields[0].FieldID)
	assert.Equal(t, "lighting", got.Fields[1].FieldID)
	assert.Equal(t, "zz_custom", got.Fields[2].FieldID)
	assert.Equal(t, []string{}, got.Fields[1].Images)
	assert.Equal(t, "r-9", got.RemoteRef)
}

func TestSurveyService_FetchRemote_NotFound(t *testing.T) {
	f := newSurveyFixture(t, true)

	_, err := f.svc.FetchRemote(context.Background(), "missing")
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestSurveyService_Delete(t *testing.T) {
	f := newSurveyFixture(t, true)
	ctx := context.Background()

	saved, err := f.svc.Save(ctx, f.project.ID, f.session(t, "en"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, saved.ID))

	_, err = f.svc.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
