package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/hazardhunt/tts/internal/app"
	"github.com/hazardhunt/tts/internal/cli/formatter"
	"github.com/hazardhunt/tts/internal/domain"
	"github.com/hazardhunt/tts/internal/form"
	"github.com/hazardhunt/tts/internal/repository"
)

func newSurveyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "survey",
		Aliases: []string{"s"},
		Short:   "Record and submit risk assessments",
	}

	cmd.AddCommand(
		newSurveyNewCmd(app),
		newSurveyListCmd(app),
		newSurveyShowCmd(app),
		newSurveySubmitCmd(app),
		newSurveyRemoveCmd(app),
		newSurveyFetchCmd(app),
	)

	return cmd
}

// newSession starts a form session against the App's catalogs.
func (a *App) newSession(lang string) *form.Session {
	var opts []form.SessionOption
	if a.Catalogs != nil {
		opts = append(opts, form.WithCatalogs(a.Catalogs))
	}
	if a.Translator == nil {
		return form.NewSession(lang, nil, opts...)
	}
	return form.NewSession(lang, a.Translator, opts...)
}

func newSurveyNewCmd(app *App) *cobra.Command {
	var projectFlag string
	var submit bool
	var edits surveyEdits

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Record a risk assessment for a project",
		Long: `Record a risk assessment for a project.

Without --set or --image flags an interactive form walks through every field
of the catalog. Press ctrl+l in the form to change the language; this clears
the answers entered so far.`,
		Example: `  hazardhunt survey new --project prj-0001
  hazardhunt survey new -p prj-0001 --set lighting.status=checked \
    --set "lighting.description=Dark stairwell" --image lighting=IMG_0042.jpg --submit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			projectID, err := pickProject(ctx, app, projectFlag)
			if err != nil {
				return err
			}

			session := app.newSession(app.uiLanguage(cmd))
			if edits.empty() {
				if !app.interactive() {
					return fmt.Errorf("no field values given: use --set/--image, or run in a terminal for the interactive form")
				}
				label := projectID
				if p, err := app.Projects.GetByID(ctx, projectID); err == nil {
					label = p.Label()
				}
				final, err := app.runEditor(newSurveyEditor(session, app.Translator, label))
				if err != nil {
					return err
				}
				if !final.saved {
					fmt.Fprintln(out, formatter.Dim(app.localize(session.Language())("form.cancelled")))
					return nil
				}
			} else if err := edits.apply(session); err != nil {
				return err
			}

			survey, err := app.saveSurveyUseCase().Save(ctx, projectID, session)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Saved survey %s to the outbox (%d/%d fields observed).\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(formatter.TruncID(survey.ID)),
				survey.ObservedCount(), len(survey.Fields))

			if submit {
				return submitOne(cmd, app, survey.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "p", "", "project ID, ID prefix or name")
	cmd.Flags().BoolVar(&submit, "submit", false, "submit right after saving")
	edits.register(cmd.Flags())
	return cmd
}

// pickProject resolves the --project flag, or asks for a project when
// running interactively.
func pickProject(ctx context.Context, app *App, input string) (string, error) {
	if input != "" {
		return resolveProjectID(ctx, app, input)
	}
	if !app.interactive() {
		return "", fmt.Errorf("--project is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return "", fmt.Errorf("no projects cached: run 'hazardhunt project sync'")
	}

	options := make([]huh.Option[string], 0, len(projects))
	for _, p := range projects {
		options = append(options, huh.NewOption(p.Label(), p.ID))
	}
	var projectID string
	err = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Project").
			Options(options...).
			Value(&projectID),
	)).WithTheme(hazardHuhTheme()).WithShowHelp(false).Run()
	if err != nil {
		return "", err
	}
	return projectID, nil
}

func newSurveyListCmd(app *App) *cobra.Command {
	var projectFlag, statusFlag string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List surveys in the outbox",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var filter repository.SurveyFilter

			if projectFlag != "" {
				id, err := resolveProjectID(ctx, app, projectFlag)
				if err != nil {
					return err
				}
				filter.ProjectID = id
			}
			if statusFlag != "" {
				st := domain.SurveyStatus(statusFlag)
				if !domain.ValidSurveyStatuses[st] {
					return fmt.Errorf("invalid status %q (use pending, submitted or failed)", statusFlag)
				}
				filter.Status = st
			}

			surveys, err := app.Surveys.List(ctx, filter)
			if err != nil {
				return err
			}
			names, err := projectNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSurveyList(surveys, names))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "p", "", "only surveys of this project")
	cmd.Flags().StringVar(&statusFlag, "status", "", "only surveys with this status (pending, submitted, failed)")
	return cmd
}

func projectNames(ctx context.Context, app *App) (map[string]string, error) {
	projects, err := app.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}

func newSurveyShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one survey field by field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSurveyID(ctx, app, args[0])
			if err != nil {
				return err
			}
			survey, err := app.Surveys.GetByID(ctx, id)
			if err != nil {
				return err
			}
			return printSurvey(cmd, app, survey)
		},
	}
}

func printSurvey(cmd *cobra.Command, app *App, survey *domain.Survey) error {
	lang := survey.Language
	if f := cmd.Flags().Lookup("lang"); f != nil && f.Changed {
		lang = f.Value.String()
	}
	project := ""
	if p, err := app.Projects.GetByID(cmd.Context(), survey.ProjectID); err == nil {
		project = p.Label()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSurveyDetail(survey, project, app.localize(lang)))
	return nil
}

func newSurveySubmitCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "submit [id]",
		Short: "Submit surveys to the backend",
		Long: `Submit a survey to the backend. Descriptions written in a language other
than English are translated to English first. A failed submission keeps the
survey in the outbox marked failed; run submit again to retry.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if len(args) > 0 {
					return fmt.Errorf("use either an ID or --all")
				}
				return submitAll(cmd, app)
			}
			if len(args) == 0 {
				return fmt.Errorf("survey ID is required (or use --all)")
			}
			id, err := resolveSurveyID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			return submitOne(cmd, app, id)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "submit every pending or failed survey")
	return cmd
}

func submitOne(cmd *cobra.Command, a *App, id string) error {
	res, err := spin(a, cmd, "Submitting "+formatter.TruncID(id), func(ctx context.Context) (*app.SubmitResult, error) {
		return a.submitSurveyUseCase().Submit(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("submitting survey %s: %w", formatter.TruncID(id), err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSubmitResult(res))
	return nil
}

func submitAll(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var queue []*domain.Survey
	for _, st := range []domain.SurveyStatus{domain.SurveyPending, domain.SurveyFailed} {
		surveys, err := app.Surveys.List(ctx, repository.SurveyFilter{Status: st})
		if err != nil {
			return err
		}
		queue = append(queue, surveys...)
	}
	if len(queue) == 0 {
		fmt.Fprintln(out, formatter.Dim("Nothing to submit."))
		return nil
	}

	failed := 0
	for _, s := range queue {
		if err := submitOne(cmd, app, s.ID); err != nil {
			failed++
			fmt.Fprintf(out, "%s %v\n", formatter.StyleRed.Render("✘"), err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d surveys failed to submit", failed, len(queue))
	}
	return nil
}

func newSurveyRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a survey from the outbox",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSurveyID(ctx, app, args[0])
			if err != nil {
				return err
			}
			survey, err := app.Surveys.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if survey.Status != domain.SurveySubmitted && !force {
				return fmt.Errorf("survey %s has not been submitted; use --force to discard it", formatter.TruncID(id))
			}
			if err := app.Surveys.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed survey %s\n", formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "discard a survey that was never submitted")
	return cmd
}

func newSurveyFetchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <remote-id>",
		Short: "Download a submitted survey from the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetch := app.fetchSurveyUseCase().FetchRemote
			survey, err := spin(app, cmd, "Fetching "+args[0], func(ctx context.Context) (*domain.Survey, error) {
				return fetch(ctx, args[0])
			})
			if err != nil {
				return fmt.Errorf("fetching survey %s: %w", args[0], err)
			}
			return printSurvey(cmd, app, survey)
		},
	}
}
