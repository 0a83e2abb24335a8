package assistant

type VoiceCommandRequest struct {
	Command string `json:"command" validate:"required"`
}

type AnalyzeRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type HealthResponse struct {
	Message string `json:"message"`
}
