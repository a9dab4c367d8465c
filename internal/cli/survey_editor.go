package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/hazardhunt/tts/internal/cli/formatter"
	"github.com/hazardhunt/tts/internal/domain"
	"github.com/hazardhunt/tts/internal/form"
	"github.com/hazardhunt/tts/internal/i18n"
)

type editorPhase int

const (
	phaseField editorPhase = iota
	phaseConfirmLanguage
	phaseConfirmSave
)

var editorKeys = struct {
	Cancel   key.Binding
	Language key.Binding
}{
	Cancel:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	Language: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "language")),
}

// surveyEditor walks the catalog one field at a time, writing each answer
// into the session. ctrl+l cycles the UI language; when answers exist the
// switch is confirmed first because it clears them.
type surveyEditor struct {
	session    *form.Session
	translator *i18n.Translator
	project    string

	phase editorPhase
	index int
	form  *huh.Form
	width int

	// Values bound to the active huh form.
	status      string
	description string
	images      string
	confirm     bool

	pendingLanguage string
	notice          string
	err             error

	saved     bool
	cancelled bool
}

func newSurveyEditor(session *form.Session, translator *i18n.Translator, project string) *surveyEditor {
	m := &surveyEditor{session: session, translator: translator, project: project}
	m.buildFieldForm()
	return m
}

func (m *surveyEditor) t(key string, args ...any) string {
	if m.translator == nil {
		if len(args) > 0 {
			return fmt.Sprintf("%s %v", key, args)
		}
		return key
	}
	return m.translator.T(m.session.Language(), key, args...)
}

func (m *surveyEditor) Init() tea.Cmd {
	return m.form.Init()
}

func (m *surveyEditor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, editorKeys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, editorKeys.Language):
			if m.phase == phaseField {
				return m, m.requestLanguage(m.nextLanguage())
			}
			return m, nil
		}
	}

	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.advance()
	case huh.StateAborted:
		m.cancelled = true
		return m, tea.Quit
	}
	return m, cmd
}

// advance handles a completed form for the current phase.
func (m *surveyEditor) advance() tea.Cmd {
	switch m.phase {
	case phaseField:
		if err := m.commit(); err != nil {
			m.err = err
			m.buildFieldForm()
			return m.form.Init()
		}
		m.err = nil
		m.index++
		if m.index >= m.session.State().Len() {
			m.buildConfirmSave()
			return m.form.Init()
		}
		m.buildFieldForm()
		return m.form.Init()

	case phaseConfirmLanguage:
		return m.resolveLanguage(m.confirm)

	case phaseConfirmSave:
		if m.confirm {
			m.saved = true
		} else {
			m.cancelled = true
		}
		return tea.Quit
	}
	return nil
}

// commit writes the bound form values into the entry at the current index.
func (m *surveyEditor) commit() error {
	key := m.currentKey()
	if err := m.session.Update(key, form.FieldStatus, m.status); err != nil {
		return err
	}
	if err := m.session.Update(key, form.FieldDescription, strings.TrimSpace(m.description)); err != nil {
		return err
	}
	return m.session.Update(key, form.FieldImages, splitList(m.images))
}

func (m *surveyEditor) currentKey() string {
	keys := m.session.State().Keys()
	return keys[min(m.index, len(keys)-1)]
}

// nextLanguage returns the loaded language after the active one.
func (m *surveyEditor) nextLanguage() string {
	if m.translator == nil {
		return m.session.Language()
	}
	langs := m.translator.Languages()
	i := slices.Index(langs, m.translator.Match(m.session.Language()))
	return langs[(i+1)%len(langs)]
}

// requestLanguage switches to code, asking first when answers would be lost.
func (m *surveyEditor) requestLanguage(code string) tea.Cmd {
	if m.translator != nil && m.translator.Match(code) == m.translator.Match(m.session.Language()) {
		return nil
	}
	m.pendingLanguage = code
	if !m.hasAnswers() {
		return m.resolveLanguage(true)
	}
	m.phase = phaseConfirmLanguage
	m.confirm = false
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("%s: %s", m.t("form.language"), strings.ToUpper(code))).
			Description(m.t("form.language_reset")).
			Value(&m.confirm),
	)).WithTheme(hazardHuhTheme()).WithShowHelp(false)
	return m.form.Init()
}

// resolveLanguage applies or drops the pending language switch and returns
// to field entry.
func (m *surveyEditor) resolveLanguage(accept bool) tea.Cmd {
	m.phase = phaseField
	if accept {
		hadAnswers := m.hasAnswers()
		if m.session.SetLanguage(m.pendingLanguage) {
			m.index = 0
			m.notice = ""
			if hadAnswers {
				m.notice = m.t("form.language_reset")
			}
		}
	}
	m.pendingLanguage = ""
	m.buildFieldForm()
	return m.form.Init()
}

func (m *surveyEditor) hasAnswers() bool {
	return slices.ContainsFunc(m.session.Fields(), domain.SurveyField.Observed)
}

func (m *surveyEditor) buildFieldForm() {
	m.phase = phaseField
	key := m.currentKey()
	entry, _ := m.session.State().Entry(key)
	m.status = string(entry.Status)
	m.description = entry.Description
	m.images = strings.Join(entry.Images, ", ")

	m.form = huh.NewForm(huh.NewGroup(
		huh.NewNote().
			Title(m.session.Title(key)).
			Description(fmt.Sprintf("%s\n%s", entry.RiskType, m.t("form.progress", m.index+1, m.session.State().Len()))),
		huh.NewSelect[string]().
			Title(m.t("form.status")).
			Options(
				huh.NewOption(m.t("status.unset"), string(domain.FieldUnset)),
				huh.NewOption(m.t("status.checked"), string(domain.FieldChecked)),
				huh.NewOption(m.t("status.notRelevant"), string(domain.FieldNotRelevant)),
			).
			Value(&m.status),
		huh.NewInput().
			Title(m.t("form.description")).
			Value(&m.description),
		huh.NewInput().
			Title(m.t("form.images")).
			Value(&m.images),
	)).WithTheme(hazardHuhTheme()).WithShowHelp(false)
	if m.width > 0 {
		m.form = m.form.WithWidth(m.width)
	}
}

func (m *surveyEditor) buildConfirmSave() {
	m.phase = phaseConfirmSave
	m.confirm = true
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(m.t("form.confirm_save")).
			Description(fmt.Sprintf("%d/%d", m.observedCount(), m.session.State().Len())).
			Value(&m.confirm),
	)).WithTheme(hazardHuhTheme()).WithShowHelp(false)
}

func (m *surveyEditor) observedCount() int {
	n := 0
	for _, f := range m.session.Fields() {
		if f.Observed() {
			n++
		}
	}
	return n
}

func (m *surveyEditor) View() string {
	var b strings.Builder

	header := formatter.Header(m.t("form.header"))
	if m.project != "" {
		header += "  " + formatter.Bold(m.project)
	}
	fmt.Fprintf(&b, "%s  %s\n", header, formatter.StyleBlue.Render(strings.ToUpper(m.session.Language())))
	fmt.Fprintf(&b, "%s\n", formatter.RenderProgress(m.index, m.session.State().Len(), 24))
	if m.notice != "" {
		fmt.Fprintf(&b, "%s\n", formatter.StyleYellow.Render(m.notice))
	}
	if m.err != nil {
		fmt.Fprintf(&b, "%s\n", formatter.StyleRed.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")

	help := []string{}
	for _, k := range []key.Binding{editorKeys.Language, editorKeys.Cancel} {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(formatter.Dim(strings.Join(help, " · ")))
	return b.String()
}

// runEditor runs m to completion and returns the final model.
func (a *App) runEditor(m *surveyEditor) (*surveyEditor, error) {
	if a.RunEditor != nil {
		return a.RunEditor(m)
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	done, ok := final.(*surveyEditor)
	if !ok {
		return nil, fmt.Errorf("unexpected editor model %T", final)
	}
	return done, nil
}
