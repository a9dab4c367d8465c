package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/hazardhunt/tts/internal/backend"
)

// FakeBackend is an in-memory backend.Client. Set the *Err fields to make
// the corresponding call fail.
type FakeBackend struct {
	mu sync.Mutex

	Projects     []backend.RemoteProject
	Surveys      map[string]*backend.RemoteSurvey
	Translations map[string]string // source text -> translated text

	ListErr      error
	SubmitErr    error
	TranslateErr error
	FetchErr     error

	Submitted      []backend.SurveyPayload
	TranslateCalls []backend.TranslateRequest
	nextID         int
}

var _ backend.Client = (*FakeBackend)(nil)

// NewFakeBackend creates an empty fake backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Surveys:      make(map[string]*backend.RemoteSurvey),
		Translations: make(map[string]string),
	}
}

func (f *FakeBackend) ListProjects(context.Context) ([]backend.RemoteProject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]backend.RemoteProject(nil), f.Projects...), nil
}

func (f *FakeBackend) FetchSurvey(_ context.Context, id string) (*backend.RemoteSurvey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	s, ok := f.Surveys[id]
	if !ok {
		return nil, fmt.Errorf("%w: survey %s", backend.ErrNotFound, id)
	}
	return s, nil
}

func (f *FakeBackend) SubmitSurvey(_ context.Context, p backend.SurveyPayload) (*backend.SubmitResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SubmitErr != nil {
		return nil, f.SubmitErr
	}
	f.nextID++
	id := fmt.Sprintf("remote-%d", f.nextID)
	f.Submitted = append(f.Submitted, p)
	f.Surveys[id] = &backend.RemoteSurvey{
		ID:        id,
		ProjectID: p.ProjectID,
		Language:  p.Language,
		CreatedAt: p.CreatedAt,
		Fields:    p.Fields,
	}
	return &backend.SubmitResponse{ID: id}, nil
}

func (f *FakeBackend) Translate(_ context.Context, req backend.TranslateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TranslateCalls = append(f.TranslateCalls, req)
	if f.TranslateErr != nil {
		return "", f.TranslateErr
	}
	if text, ok := f.Translations[req.Text]; ok {
		return text, nil
	}
	return "[" + req.TargetLang + "] " + req.Text, nil
}

func (f *FakeBackend) Available(context.Context) bool { return true }
