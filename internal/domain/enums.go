package domain

// FieldStatus is the observer's verdict on one risk field.
type FieldStatus string

const (
	FieldUnset       FieldStatus = ""
	FieldChecked     FieldStatus = "checked"
	FieldNotRelevant FieldStatus = "notRelevant"
)

// ValidFieldStatuses is the canonical set of accepted field status strings.
var ValidFieldStatuses = map[FieldStatus]bool{
	FieldUnset: true, FieldChecked: true, FieldNotRelevant: true,
}

// ParseFieldStatus validates s as a field status.
func ParseFieldStatus(s string) (FieldStatus, bool) {
	st := FieldStatus(s)
	return st, ValidFieldStatuses[st]
}

// SurveyStatus tracks a survey through the local outbox.
type SurveyStatus string

const (
	SurveyPending   SurveyStatus = "pending"
	SurveySubmitted SurveyStatus = "submitted"
	SurveyFailed    SurveyStatus = "failed"
)

// ValidSurveyStatuses is the canonical set of accepted survey status strings.
var ValidSurveyStatuses = map[SurveyStatus]bool{
	SurveyPending: true, SurveySubmitted: true, SurveyFailed: true,
}
