// Package i18n provides the localized strings used by the observation form:
// field titles, risk-type labels and UI text.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// DefaultLanguage is used when a requested language has no translations.
const DefaultLanguage = "en"

// Message is a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Translation string `json:"translation"`
}

// MessageFile is the structure of a locales/<lang>/messages.json file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Translator holds the translations of every supported language. It is
// immutable after construction and safe for concurrent reads.
type Translator struct {
	translations map[string]map[string]string // lang -> key -> translation
	supported    []language.Tag
	matcher      language.Matcher
	logger       *slog.Logger
}

// New loads the embedded locales.
func New(logger *slog.Logger) (*Translator, error) {
	sub, err := fs.Sub(localesFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("opening embedded locales: %w", err)
	}
	return NewFromFS(sub, logger)
}

// NewFromFS loads every <lang>/messages.json found at the top of fsys.
func NewFromFS(fsys fs.FS, logger *slog.Logger) (*Translator, error) {
	t := &Translator{
		translations: make(map[string]map[string]string),
		logger:       logger,
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading locales: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := t.loadLanguage(fsys, e.Name()); err != nil {
			return nil, fmt.Errorf("failed to load language %s: %w", e.Name(), err)
		}
	}

	if _, ok := t.translations[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("no %q translations found", DefaultLanguage)
	}

	langs := t.Languages()
	// The default language goes first so the matcher falls back to it.
	slices.SortStableFunc(langs, func(a, b string) int {
		switch {
		case a == DefaultLanguage:
			return -1
		case b == DefaultLanguage:
			return 1
		}
		return strings.Compare(a, b)
	})
	t.supported = make([]language.Tag, 0, len(langs))
	for _, lang := range langs {
		t.supported = append(t.supported, language.MustParse(lang))
	}
	t.matcher = language.NewMatcher(t.supported)

	if logger != nil {
		logger.Debug("i18n initialized", "languages", langs)
	}
	return t, nil
}

func (t *Translator) loadLanguage(fsys fs.FS, lang string) error {
	path := lang + "/messages.json"
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if _, err := language.Parse(lang); err != nil {
		return fmt.Errorf("invalid language directory %q: %w", lang, err)
	}

	m := make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		m[msg.ID] = msg.Translation
	}
	t.translations[lang] = m
	return nil
}

// Languages returns the loaded language codes, sorted.
func (t *Translator) Languages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Match finds the best supported language for a code or Accept-Language
// style list. Unparseable input yields DefaultLanguage.
func (t *Translator) Match(code string) string {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(code)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(code)
		if err != nil {
			return DefaultLanguage
		}
		tags = []language.Tag{tag}
	}

	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(t.supported) {
		return DefaultLanguage
	}
	base, _ := t.supported[idx].Base()
	return base.String()
}

// Lookup returns the translation of key for lang. Keys missing in lang fall
// back to DefaultLanguage; ok is false when neither has the key.
func (t *Translator) Lookup(lang, key string) (string, bool) {
	matched := t.Match(lang)
	if text, ok := t.translations[matched][key]; ok {
		return text, true
	}
	if matched != DefaultLanguage {
		if text, ok := t.translations[DefaultLanguage][key]; ok {
			if t.logger != nil {
				t.logger.Debug("missing translation, using default", "key", key, "lang", matched)
			}
			return text, true
		}
	}
	return "", false
}

// T translates key for lang, formatting with args when given. A missing
// key is returned unchanged.
func (t *Translator) T(lang, key string, args ...any) string {
	text, ok := t.Lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Func binds the translator to one language.
func (t *Translator) Func(lang string) func(key string) (string, bool) {
	return func(key string) (string, bool) {
		return t.Lookup(lang, key)
	}
}
