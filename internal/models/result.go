package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Extension    string `json:"extension"`
}

type AnalyzeRequest struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
}

type AnalyzeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Result       *CareerAnalysis `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

type ResumeAnalysisResponse struct {
	Filename string          `json:"filename"`
	Sections SectionMap      `json:"sections"`
	Analysis *CareerAnalysis `json:"analysis"`
}

type SectionsResponse struct {
	Filename string     `json:"filename"`
	Sections SectionMap `json:"sections"`
}
