package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/hazardhunt/tts/internal/repository"
)

// resolveProjectID matches input against cached projects: exact id, then
// case-insensitive name, then unique id prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q (run 'hazardhunt project sync')", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveSurveyID accepts a full survey id or a unique prefix.
func resolveSurveyID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("survey ID is required")
	}
	surveys, err := app.Surveys.List(ctx, repository.SurveyFilter{})
	if err != nil {
		return "", err
	}

	var matches []string
	for _, s := range surveys {
		if s.ID == input {
			return s.ID, nil
		}
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("survey not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("survey ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
