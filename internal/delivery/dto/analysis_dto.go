package dto

type AnalyzeSymptomsRequest struct {
	Symptoms string `json:"symptoms" validate:"required,min=3,max=4000"`
	UserID   string `json:"userId" validate:"omitempty,uuid"`
}

// SymptomAnalysisResponse is also the exact schema the model must answer with
type SymptomAnalysisResponse struct {
	PossibleConditions []string `json:"possibleConditions" validate:"required,min=1,dive,required"`
	Recommendations    string   `json:"recommendations" validate:"required"`
	Urgency            string   `json:"urgency" validate:"required,oneof=Low Medium High"`
}

type ReportAnalysisResponse struct {
	Analysis string `json:"analysis"`
}
