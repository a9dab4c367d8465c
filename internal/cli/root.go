package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazardhunt/tts/internal/app"
	"github.com/hazardhunt/tts/internal/catalog"
	"github.com/hazardhunt/tts/internal/cli/formatter"
	"github.com/hazardhunt/tts/internal/i18n"
	"github.com/hazardhunt/tts/internal/service"
)

// App holds references to all services and collaborators used by CLI
// commands.
type App struct {
	Projects   service.ProjectService
	Surveys    service.SurveyService
	Translator *i18n.Translator
	Catalogs   *catalog.Registry

	// Language is the default UI language; --lang overrides it.
	Language string

	// Optional use-case overrides. When nil the services above serve them.
	SyncProjects app.SyncProjectsUseCase
	SaveSurvey   app.SaveSurveyUseCase
	SubmitSurvey app.SubmitSurveyUseCase
	FetchSurvey  app.FetchSurveyUseCase

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// RunEditor drives the interactive survey editor. Nil runs it as a
	// full-screen bubbletea program.
	RunEditor func(m *surveyEditor) (*surveyEditor, error)
}

// NewRootCmd creates the top-level "hazardhunt" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "hazardhunt",
		Short:         "Site safety risk assessments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("lang", "", "UI language (defaults to HH_LANG or LANG)")

	root.AddCommand(
		newCatalogCmd(app),
		newProjectCmd(app),
		newSurveyCmd(app),
	)

	return root
}

// uiLanguage returns the --lang flag value, or the App default.
func (a *App) uiLanguage(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("lang"); f != nil && f.Changed {
		return f.Value.String()
	}
	return a.Language
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// spin runs fn with a spinner on stderr when attached to a terminal.
func spin[T any](a *App, cmd *cobra.Command, message string, fn func(context.Context) (T, error)) (T, error) {
	if a.interactive() {
		stop := formatter.StartSpinner(cmd.ErrOrStderr(), message)
		defer stop()
	}
	return fn(cmd.Context())
}

// localize binds the translator to one language for formatters.
func (a *App) localize(lang string) func(string) string {
	return func(key string) string {
		if a.Translator == nil {
			return key
		}
		return a.Translator.T(lang, key)
	}
}
