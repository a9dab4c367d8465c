package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hazardhunt/tts/internal/domain"
)

// Safety-vest palette: high-visibility orange accent on a dark neutral base.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#ff7a00")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// FieldStatusStyle returns the style for a field verdict.
func FieldStatusStyle(st domain.FieldStatus) lipgloss.Style {
	switch st {
	case domain.FieldChecked:
		return StyleGreen
	case domain.FieldNotRelevant:
		return StyleBlue
	default:
		return StyleDim
	}
}

// FieldStatusMark renders a one-character verdict marker.
func FieldStatusMark(st domain.FieldStatus) string {
	switch st {
	case domain.FieldChecked:
		return StyleGreen.Render("✔")
	case domain.FieldNotRelevant:
		return StyleBlue.Render("–")
	default:
		return StyleDim.Render("·")
	}
}

// SurveyStatusPill returns a colored outbox status indicator.
func SurveyStatusPill(st domain.SurveyStatus) string {
	switch st {
	case domain.SurveySubmitted:
		return StyleGreen.Render("● SUBMITTED")
	case domain.SurveyFailed:
		return StyleRed.Render("● FAILED")
	case domain.SurveyPending:
		return StyleYellow.Render("● PENDING")
	default:
		return StyleDim.Render("● " + strings.ToUpper(string(st)))
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
