package form

import (
	"fmt"
	"strings"

	"github.com/hazardhunt/tts/internal/catalog"
	"github.com/hazardhunt/tts/internal/domain"
	"github.com/hazardhunt/tts/internal/translation"
)

// Localizer resolves translation keys for a language.
type Localizer interface {
	Lookup(lang, key string) (string, bool)
}

// CatalogSource selects the field catalog for a language code.
type CatalogSource interface {
	Select(code string) *catalog.Catalog
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithCatalogs overrides the embedded catalog registry.
func WithCatalogs(src CatalogSource) SessionOption {
	return func(s *Session) {
		if src != nil {
			s.catalogs = src
		}
	}
}

// Session is one in-progress risk assessment, from start to submit or
// cancel. It owns the active catalog, the form state and the translation
// selection derived from the UI language.
type Session struct {
	localizer Localizer
	catalogs  CatalogSource

	language  string
	catalog   *catalog.Catalog
	state     State
	selection translation.Selection
}

// NewSession starts a form session in the given UI language.
func NewSession(languageCode string, localizer Localizer, opts ...SessionOption) *Session {
	s := &Session{
		localizer: localizer,
		catalogs:  catalog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.apply(normalizeCode(languageCode))
	return s
}

// SetLanguage switches the UI language. Only the two-character prefix of a
// code is significant: when it differs from the active one the form is
// re-initialized from the new catalog, discarding every description, status
// and image entered so far, and the translation selection is recomputed.
// Otherwise the new code is recorded and the entries are kept. It reports
// whether a re-initialization happened.
func (s *Session) SetLanguage(code string) bool {
	code = normalizeCode(code)
	if translation.Select(code).Equal(s.selection) && s.catalogs.Select(code) == s.catalog {
		s.language = code
		return false
	}
	s.apply(code)
	return true
}

func (s *Session) apply(code string) {
	s.language = code
	s.catalog = s.catalogs.Select(code)
	s.state = Initialize(s.catalog, s.translate)
	s.selection = translation.Select(code)
}

func (s *Session) translate(key string) (string, bool) {
	if s.localizer == nil {
		return "", false
	}
	return s.localizer.Lookup(s.language, key)
}

// Language returns the active UI language code.
func (s *Session) Language() string { return s.language }

// Catalog returns the active field catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// State returns the current form state.
func (s *Session) State() State { return s.state }

// Selection returns the translation selection for the active language.
func (s *Session) Selection() translation.Selection { return s.selection }

// Update replaces one sub-field of the entry at key. On error the state is
// left unchanged.
func (s *Session) Update(key string, field Field, value any) error {
	next, err := s.state.Update(key, field, value)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Get reads one sub-field of the entry at key.
func (s *Session) Get(key string, field Field) (any, bool) {
	return s.state.Get(key, field)
}

// AttachImage appends an image reference to the entry at key.
func (s *Session) AttachImage(key, ref string) error {
	e, ok := s.state.Entry(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s.Update(key, FieldImages, append(e.Images, ref))
}

// Fields returns the session payload in catalog order.
func (s *Session) Fields() []domain.SurveyField {
	return s.state.Fields()
}

// Title returns the localized title of a field, or the field id.
func (s *Session) Title(key string) string {
	if text, ok := s.translate(key + ".title"); ok {
		return text
	}
	return key
}

func normalizeCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return translation.English
	}
	return code
}
