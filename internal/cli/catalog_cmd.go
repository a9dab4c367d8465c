package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazardhunt/tts/internal/catalog"
	"github.com/hazardhunt/tts/internal/cli/formatter"
	"github.com/hazardhunt/tts/internal/translation"
)

func newCatalogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show the risk fields for the UI language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := app.uiLanguage(cmd)
			cat := app.catalogs().Select(lang)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalog(cat, translation.Select(lang), app.localize(lang)))
			return nil
		},
	}
}

func (a *App) catalogs() *catalog.Registry {
	if a.Catalogs != nil {
		return a.Catalogs
	}
	return catalog.Default()
}
