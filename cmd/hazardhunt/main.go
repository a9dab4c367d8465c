package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/hazardhunt/tts/internal/backend"
	"github.com/hazardhunt/tts/internal/catalog"
	"github.com/hazardhunt/tts/internal/cli"
	"github.com/hazardhunt/tts/internal/config"
	"github.com/hazardhunt/tts/internal/db"
	"github.com/hazardhunt/tts/internal/i18n"
	"github.com/hazardhunt/tts/internal/repository"
	"github.com/hazardhunt/tts/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	projectRepo := repository.NewSQLiteProjectRepo(database)
	surveyRepo := repository.NewSQLiteSurveyRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Call-level logging is opt-in; warnings from the services are not.
	var callObserver backend.Observer = backend.NoopObserver{}
	var observers []service.UseCaseObserver
	if cfg.LogCalls {
		callObserver = backend.NewSlogObserver(logger)
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}
	client := backend.NewHTTPClient(cfg.Backend, callObserver)
	if !cfg.Backend.Configured() {
		logger.Debug("backend not configured; sync and submit are unavailable", "env", "HH_API_URL")
	}

	translator, err := i18n.New(logger)
	if err != nil {
		return fmt.Errorf("loading translations: %w", err)
	}

	app := &cli.App{
		Projects: service.NewProjectService(projectRepo, client, uow, observers...),
		Surveys: service.NewSurveyService(surveyRepo, projectRepo, client, uow,
			service.SurveyOptions{TranslateDescriptions: cfg.TranslateDescriptions, Logger: logger},
			observers...),
		Translator: translator,
		Catalogs:   catalog.Default(),
		Language:   cfg.Language,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
