package cli

import "github.com/hazardhunt/tts/internal/app"

func (a *App) syncProjectsUseCase() app.SyncProjectsUseCase {
	if a.SyncProjects != nil {
		return a.SyncProjects
	}
	return a.Projects
}

func (a *App) saveSurveyUseCase() app.SaveSurveyUseCase {
	if a.SaveSurvey != nil {
		return a.SaveSurvey
	}
	return a.Surveys
}

func (a *App) submitSurveyUseCase() app.SubmitSurveyUseCase {
	if a.SubmitSurvey != nil {
		return a.SubmitSurvey
	}
	return a.Surveys
}

func (a *App) fetchSurveyUseCase() app.FetchSurveyUseCase {
	if a.FetchSurvey != nil {
		return a.FetchSurvey
	}
	return a.Surveys
}
