package formatter

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hazardhunt/tts/internal/app"
	"github.com/hazardhunt/tts/internal/catalog"
	"github.com/hazardhunt/tts/internal/domain"
	"github.com/hazardhunt/tts/internal/translation"
)

// Localize resolves a UI message key for the active language.
type Localize func(key string) string

// StatusLabel returns the localized name of a field verdict.
func StatusLabel(st domain.FieldStatus, tr Localize) string {
	if st == domain.FieldUnset {
		return tr("status.unset")
	}
	return tr("status." + string(st))
}

// FormatProjectList renders the cached projects.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects cached. Run 'hazardhunt project sync'.")
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.DisplayID(),
			Bold(p.Name),
			Or(p.Address, "--"),
			Dim(Ago(p.SyncedAt)),
		})
	}
	return RenderBox("Projects", RenderTable([]string{"ID", "NAME", "ADDRESS", "SYNCED"}, rows))
}

// FormatSyncResult summarizes a project cache refresh.
func FormatSyncResult(res *app.SyncResult) string {
	return fmt.Sprintf("%s Synced %s from the backend.",
		StyleGreen.Render("✔"), Bold(plural(len(res.Projects), "project")))
}

// FormatSurveyList renders the outbox. projectNames maps project ids to
// display names; unknown ids are shown truncated.
func FormatSurveyList(surveys []*domain.Survey, projectNames map[string]string) string {
	if len(surveys) == 0 {
		return Dim("Outbox is empty.")
	}
	rows := make([][]string, 0, len(surveys))
	for _, s := range surveys {
		project := projectNames[s.ProjectID]
		if project == "" {
			project = TruncID(s.ProjectID)
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			project,
			strings.ToUpper(s.Language),
			fmt.Sprintf("%d/%d", s.ObservedCount(), len(s.Fields)),
			SurveyStatusPill(s.Status),
			Dim(Ago(s.CreatedAt)),
		})
	}
	return RenderBox("Outbox", RenderTable([]string{"ID", "PROJECT", "LANG", "OBSERVED", "STATUS", "CREATED"}, rows))
}

// FormatSurveyDetail renders one survey field by field. Unobserved fields
// are listed compactly after the observed ones.
func FormatSurveyDetail(s *domain.Survey, project string, tr Localize) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("ID      "), s.ID)
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("PROJECT "), Or(project, s.ProjectID))
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("LANGUAGE"), strings.ToUpper(s.Language))
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("STATUS  "), SurveyStatusPill(s.Status))
	if s.RemoteRef != "" {
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("REMOTE  "), s.RemoteRef)
	}
	if s.LastError != "" {
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("ERROR   "), StyleRed.Render(s.LastError))
	}
	b.WriteString("\n")

	var quiet []string
	for _, f := range s.Fields {
		title := tr(f.FieldID + ".title")
		if !f.Observed() {
			quiet = append(quiet, title)
			continue
		}
		fmt.Fprintf(&b, "%s %s %s\n", FieldStatusMark(f.Status), Bold(title), Dim("("+f.RiskType+")"))
		fmt.Fprintf(&b, "    %s %s\n", Dim(tr("form.status")+":"), FieldStatusStyle(f.Status).Render(StatusLabel(f.Status, tr)))
		if f.Description != "" {
			fmt.Fprintf(&b, "    %s %s\n", Dim(tr("form.description")+":"), f.Description)
		}
		for _, lang := range slices.Sorted(maps.Keys(f.Translations)) {
			fmt.Fprintf(&b, "    %s %s\n", Dim("["+lang+"]"), f.Translations[lang])
		}
		if len(f.Images) > 0 {
			fmt.Fprintf(&b, "    %s %s\n", Dim(tr("form.images")+":"), strings.Join(f.Images, ", "))
		}
	}
	if len(quiet) > 0 {
		fmt.Fprintf(&b, "\n%s %s\n", FieldStatusMark(domain.FieldUnset), Dim(strings.Join(quiet, ", ")))
	}

	return RenderBox("Survey", strings.TrimRight(b.String(), "\n"))
}

// FormatSubmitResult summarizes a successful hand-off.
func FormatSubmitResult(res *app.SubmitResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Submitted %s as %s",
		StyleGreen.Render("✔"), TruncID(res.Survey.ID), Bold(res.Survey.RemoteRef))
	if res.Translated > 0 {
		fmt.Fprintf(&b, "\n  %s", Dim(plural(res.Translated, "description")+" translated"))
	}
	if res.TranslationFailures > 0 {
		fmt.Fprintf(&b, "\n  %s", StyleYellow.Render(plural(res.TranslationFailures, "description")+" sent untranslated"))
	}
	return b.String()
}

// FormatCatalog lists the fields of a catalog with their localized titles,
// followed by the translation selection for its language.
func FormatCatalog(cat *catalog.Catalog, sel translation.Selection, tr Localize) string {
	rows := make([][]string, 0, cat.Len())
	for i, id := range cat.Keys() {
		d, _ := cat.Definition(id)
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			id,
			Bold(tr(id + ".title")),
			d.RiskType,
		})
	}

	target := Dim("none")
	if sel.NeedsTranslation() {
		target = strings.Join(sel.To, ", ")
	}
	footer := fmt.Sprintf("%s %s    %s %s",
		Dim("source:"), sel.From, Dim("translate to:"), target)

	title := fmt.Sprintf("Catalog (%s)", cat.Language())
	return RenderBox(title, RenderTable([]string{"#", "ID", "TITLE", "RISK TYPE"}, rows)+"\n\n"+footer)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
