// Package form holds the in-progress state of one risk assessment: one
// mutable entry per catalog field, keyed by field id.
//
// State is a value. Update returns a new State and leaves the receiver
// untouched, so each change is a single replace with no partially-applied
// window.
package form

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hazardhunt/tts/internal/catalog"
	"github.com/hazardhunt/tts/internal/domain"
)

var (
	ErrUnknownKey   = errors.New("unknown field id")
	ErrUnknownField = errors.New("unknown entry field")
	ErrInvalidValue = errors.New("invalid value")
)

// Field names one sub-field of an Entry.
type Field string

const (
	FieldDescription Field = "description"
	FieldStatus      Field = "status"
	FieldRiskType    Field = "risk_type"
	FieldImages      Field = "images"
)

// ParseField validates s as an entry field name.
func ParseField(s string) (Field, bool) {
	switch f := Field(s); f {
	case FieldDescription, FieldStatus, FieldRiskType, FieldImages:
		return f, true
	}
	return "", false
}

// TranslateFunc looks up a localized string. ok is false when no mapping
// exists.
type TranslateFunc func(key string) (text string, ok bool)

// Entry is the user-entered data for one catalog field.
type Entry struct {
	Description string
	Status      domain.FieldStatus
	RiskType    string
	Images      []string
}

func (e Entry) clone() Entry {
	e.Images = slices.Clone(e.Images)
	return e
}

// State maps every field id of the active catalog to its Entry.
type State struct {
	order   []string
	entries map[string]Entry
}

// RiskTypeKey is the translation key holding the risk-type label of a field.
func RiskTypeKey(fieldID string) string {
	return fieldID + ".risk_type"
}

// Initialize creates one empty entry per catalog key. The risk type of
// each entry comes from translate; when no translation exists the raw
// lookup key is stored.
func Initialize(cat *catalog.Catalog, translate TranslateFunc) State {
	keys := cat.Keys()
	s := State{
		order:   keys,
		entries: make(map[string]Entry, len(keys)),
	}
	for _, k := range keys {
		rtKey := RiskTypeKey(k)
		riskType := rtKey
		if translate != nil {
			if text, ok := translate(rtKey); ok {
				riskType = text
			}
		}
		s.entries[k] = Entry{RiskType: riskType, Images: []string{}}
	}
	return s
}

// Len returns the number of entries.
func (s State) Len() int {
	return len(s.order)
}

// Keys returns the field ids in catalog order.
func (s State) Keys() []string {
	return slices.Clone(s.order)
}

// Entry returns a copy of the entry for key.
func (s State) Entry(key string) (Entry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Get reads one sub-field. It returns (nil, false) for an unknown key or
// field.
func (s State) Get(key string, field Field) (any, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	switch field {
	case FieldDescription:
		return e.Description, true
	case FieldStatus:
		return e.Status, true
	case FieldRiskType:
		return e.RiskType, true
	case FieldImages:
		return slices.Clone(e.Images), true
	}
	return nil, false
}

// Update returns a copy of s with one sub-field of the entry at key
// replaced. Strings are accepted for description, status and risk_type;
// images takes a []string.
func (s State) Update(key string, field Field, value any) (State, error) {
	e, ok := s.entries[key]
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	e = e.clone()

	switch field {
	case FieldDescription:
		v, ok := value.(string)
		if !ok {
			return s, fmt.Errorf("%w: description must be a string, got %T", ErrInvalidValue, value)
		}
		e.Description = v
	case FieldRiskType:
		v, ok := value.(string)
		if !ok {
			return s, fmt.Errorf("%w: risk_type must be a string, got %T", ErrInvalidValue, value)
		}
		e.RiskType = v
	case FieldStatus:
		var raw string
		switch v := value.(type) {
		case string:
			raw = v
		case domain.FieldStatus:
			raw = string(v)
		default:
			return s, fmt.Errorf("%w: status must be a string, got %T", ErrInvalidValue, value)
		}
		st, ok := domain.ParseFieldStatus(raw)
		if !ok {
			return s, fmt.Errorf("%w: status %q", ErrInvalidValue, raw)
		}
		e.Status = st
	case FieldImages:
		v, ok := value.([]string)
		if !ok {
			return s, fmt.Errorf("%w: images must be a []string, got %T", ErrInvalidValue, value)
		}
		e.Images = slices.Clone(v)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	next := State{
		order:   s.order,
		entries: make(map[string]Entry, len(s.entries)),
	}
	for k, v := range s.entries {
		next.entries[k] = v
	}
	next.entries[key] = e
	return next, nil
}

// Fields converts the state into stored survey fields in catalog order.
func (s State) Fields() []domain.SurveyField {
	out := make([]domain.SurveyField, 0, len(s.order))
	for _, k := range s.order {
		e := s.entries[k]
		out = append(out, domain.SurveyField{
			FieldID:     k,
			Description: e.Description,
			Status:      e.Status,
			RiskType:    e.RiskType,
			Images:      slices.Clone(e.Images),
		})
	}
	return out
}
