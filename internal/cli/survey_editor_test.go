package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazardhunt/tts/internal/domain"
	"github.com/hazardhunt/tts/internal/form"
	"github.com/hazardhunt/tts/internal/i18n"
	"github.com/hazardhunt/tts/internal/teatest"
)

func newTestEditor(t *testing.T, lang string) (*surveyEditor, *teatest.Driver) {
	t.Helper()
	tr, err := i18n.New(nil)
	require.NoError(t, err)
	m := newSurveyEditor(form.NewSession(lang, tr), tr, "Harbour Tower")
	d := teatest.New(t, m, teatest.WithSize(100, 40)).Start()
	return m, d
}

func TestSurveyEditor_InitialView(t *testing.T) {
	_, d := newTestEditor(t, "en")
	d.RequireView("Risk assessment", "Harbour Tower", "EN", "Scaffold base and sole plates", "Field 1 of 10", "ctrl+l language")
}

func TestSurveyEditor_EscCancels(t *testing.T) {
	m, d := newTestEditor(t, "en")
	d.Press(tea.KeyEsc)
	assert.True(t, d.Quitting)
	assert.True(t, m.cancelled)
	assert.False(t, m.saved)
}

func TestSurveyEditor_CommitAdvances(t *testing.T) {
	m, _ := newTestEditor(t, "en")
	m.status = "checked"
	m.description = "  Base plates missing  "
	m.images = "IMG_1.jpg, IMG_2.jpg"
	m.advance()

	assert.Equal(t, 1, m.index)
	assert.Equal(t, phaseField, m.phase)
	desc, _ := m.session.Get("scaffold_base", form.FieldDescription)
	assert.Equal(t, "Base plates missing", desc)
	st, _ := m.session.Get("scaffold_base", form.FieldStatus)
	assert.Equal(t, domain.FieldChecked, st)
	imgs, _ := m.session.Get("scaffold_base", form.FieldImages)
	assert.Equal(t, []string{"IMG_1.jpg", "IMG_2.jpg"}, imgs)

	// The next form starts from the stored entry of the next field.
	assert.Empty(t, m.description)
	assert.Contains(t, m.View(), "Field 2 of 10")
}

func TestSurveyEditor_LastFieldAsksToSave(t *testing.T) {
	m, _ := newTestEditor(t, "en")
	for range m.session.State().Len() {
		m.advance()
	}
	assert.Equal(t, phaseConfirmSave, m.phase)
	assert.Contains(t, m.View(), "Save this risk assessment?")

	m.confirm = true
	cmd := m.advance()
	require.NotNil(t, cmd)
	assert.True(t, m.saved)
}

func TestSurveyEditor_DeclineSaveCancels(t *testing.T) {
	m, _ := newTestEditor(t, "en")
	m.buildConfirmSave()
	m.confirm = false
	m.advance()
	assert.True(t, m.cancelled)
	assert.False(t, m.saved)
}

func TestSurveyEditor_LanguageSwitchWithoutAnswers(t *testing.T) {
	m, d := newTestEditor(t, "en")
	d.Press(tea.KeyCtrlL)

	assert.Equal(t, "fi", m.session.Language())
	assert.Equal(t, phaseField, m.phase)
	assert.Empty(t, m.notice)
	d.RequireView("Riskiarvio", "FI", "Telineen perustus ja aluslaudat")
}

func TestSurveyEditor_LanguageSwitchConfirmClearsAnswers(t *testing.T) {
	m, d := newTestEditor(t, "en")
	m.status = "checked"
	m.description = "Base plates missing"
	m.advance()

	d.Press(tea.KeyCtrlL)
	require.Equal(t, phaseConfirmLanguage, m.phase)
	assert.Equal(t, "en", m.session.Language())
	d.RequireView("Language changed: entries were cleared.")

	m.resolveLanguage(true)
	assert.Equal(t, "fi", m.session.Language())
	assert.Equal(t, 0, m.index)
	assert.False(t, m.hasAnswers())
	assert.Equal(t, "Kieli vaihdettu: syötetyt tiedot tyhjennettiin.", m.notice)
}

func TestSurveyEditor_LanguageSwitchDeclinedKeepsAnswers(t *testing.T) {
	m, d := newTestEditor(t, "en")
	m.status = "checked"
	m.advance()

	d.Press(tea.KeyCtrlL)
	m.resolveLanguage(false)

	assert.Equal(t, "en", m.session.Language())
	assert.True(t, m.hasAnswers())
	assert.Equal(t, 1, m.index)
}

func TestSurveyEditor_NextLanguageCycles(t *testing.T) {
	m, _ := newTestEditor(t, "fi-FI")
	assert.Equal(t, "en", m.nextLanguage())
}
