package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/hazardhunt/tts/internal/form"
)

// surveyEdits collects the --set and --image flags of "survey new".
type surveyEdits struct {
	sets   []string
	images []string
}

func (e *surveyEdits) register(fs *pflag.FlagSet) {
	fs.StringArrayVar(&e.sets, "set", nil, "set a field value: <field>.<description|status>=<value> (repeatable)")
	fs.StringArrayVar(&e.images, "image", nil, "attach an image reference: <field>=<ref> (repeatable)")
}

func (e *surveyEdits) empty() bool {
	return len(e.sets) == 0 && len(e.images) == 0
}

// fieldEdit is one parsed --set flag.
type fieldEdit struct {
	Key   string
	Field form.Field
	Value string
}

// parseSet parses "<field>.<sub-field>=<value>". The value may contain '='.
func parseSet(raw string) (fieldEdit, error) {
	lhs, value, ok := strings.Cut(raw, "=")
	if !ok {
		return fieldEdit{}, fmt.Errorf("invalid --set %q: expected <field>.<name>=<value>", raw)
	}
	dot := strings.LastIndex(lhs, ".")
	if dot <= 0 || dot == len(lhs)-1 {
		return fieldEdit{}, fmt.Errorf("invalid --set %q: expected <field>.<name>=<value>", raw)
	}
	key, name := strings.TrimSpace(lhs[:dot]), strings.TrimSpace(lhs[dot+1:])
	field, ok := form.ParseField(name)
	if !ok {
		return fieldEdit{}, fmt.Errorf("invalid --set %q: unknown entry field %q", raw, name)
	}
	switch field {
	case form.FieldRiskType:
		return fieldEdit{}, fmt.Errorf("invalid --set %q: risk_type comes from the catalog", raw)
	case form.FieldImages:
		return fieldEdit{}, fmt.Errorf("invalid --set %q: use --image to attach images", raw)
	}
	return fieldEdit{Key: key, Field: field, Value: value}, nil
}

// apply writes every edit into the session, stopping at the first error.
func (e *surveyEdits) apply(s *form.Session) error {
	for _, raw := range e.sets {
		edit, err := parseSet(raw)
		if err != nil {
			return err
		}
		if err := s.Update(edit.Key, edit.Field, edit.Value); err != nil {
			return fmt.Errorf("--set %s: %w", raw, err)
		}
	}
	for _, raw := range e.images {
		key, ref, ok := strings.Cut(raw, "=")
		key, ref = strings.TrimSpace(key), strings.TrimSpace(ref)
		if !ok || key == "" || ref == "" {
			return fmt.Errorf("invalid --image %q: expected <field>=<ref>", raw)
		}
		if err := s.AttachImage(key, ref); err != nil {
			return fmt.Errorf("--image %s: %w", raw, err)
		}
	}
	return nil
}

// splitList splits a comma separated input, dropping blanks.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
