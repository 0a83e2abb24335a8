package assistantService

import (
	"context"

	"ZeroConfigAssistant/internal/api/assistant"
	"ZeroConfigAssistant/internal/entity"
	contextPkg "ZeroConfigAssistant/pkg/context"
	"ZeroConfigAssistant/pkg/log"
	"ZeroConfigAssistant/pkg/nlp"
	"ZeroConfigAssistant/pkg/understanding"
)

const (
	operationVoiceCommand = "voice_command"
	operationAnalyze      = "analyze"
)

// ProcessVoiceCommand runs extract, enrich and merge in sequence. Enrichment
// failures are absorbed, so the only errors returned come from the request itself.
func (s *assistantService) ProcessVoiceCommand(ctx context.Context, req assistant.VoiceCommandRequest) (*entity.FinalResult, error) {
	if req.Command == "" {
		return nil, assistant.ErrMissingCommand
	}

	requestID := contextPkg.GetRequestID(ctx)

	provisional := nlp.Extract(req.Command)

	s.log.WithFields(log.Fields{
		"request_id":   requestID,
		"command_type": provisional.CommandType,
		"params":       len(provisional.Params),
	}).Debug("[assistantService.ProcessVoiceCommand] provisional classification")

	enriched := s.enrich(ctx, req.Command, provisional)
	result := understanding.Merge(provisional, enriched.Response)

	s.metrics.RecordCommand(result.CommandType, result.Confidence)

	s.log.WithFields(log.Fields{
		"request_id":   requestID,
		"command_type": result.CommandType,
		"confidence":   result.Confidence,
		"source":       enriched.Source,
	}).Info("[assistantService.ProcessVoiceCommand] command understood")

	return &result, nil
}

// Analyze forwards a free-form prompt to the model. The reply is not required to be JSON.
func (s *assistantService) Analyze(ctx context.Context, req assistant.AnalyzeRequest) (*entity.AnalyzeResult, error) {
	if req.Prompt == "" {
		return nil, assistant.ErrMissingPrompt
	}

	result := s.generate(ctx, operationAnalyze, req.Prompt, false)
	return &result, nil
}
