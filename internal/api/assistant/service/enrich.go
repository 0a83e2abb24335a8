package assistantService

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	jsoniter "github.com/json-iterator/go"

	"ZeroConfigAssistant/internal/entity"
	contextPkg "ZeroConfigAssistant/pkg/context"
	"ZeroConfigAssistant/pkg/log"
	"ZeroConfigAssistant/pkg/resilience"
	"ZeroConfigAssistant/pkg/understanding"
)

// FallbackResponse is returned in place of a model reply when the model cannot be used.
const FallbackResponse = "I'm sorry, the Gemini service is currently unavailable. Here is a basic answer based on predefined rules."

var ErrUnparseableReply = errors.New("model reply is not an enrichment object")

const (
	failureNone        = ""
	failureModel       = "model"
	failureTransport   = "transport"
	failureTimeout     = "timeout"
	failureCanceled    = "canceled"
	failureCircuitOpen = "circuit_open"
)

const enrichmentPromptTemplate = `Analyze this voice command: %q

I already classified this command as type: %s
With these parameters: %s

If my classification is wrong, correct it.
If parameters are missing or wrong, correct them.
Also provide relevant suggestions based on the context.
Give a confidence score between 0 and 1 for the final classification.

Answer with JSON only, in this exact shape:
{
  "commandType": "command_type",
  "params": { ... },
  "suggestions": [ ... ],
  "confidence": 0.0
}`

func buildEnrichmentPrompt(text string, provisional entity.Classification) string {
	params, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(provisional.Params)
	if err != nil || provisional.Params == nil {
		params = []byte("{}")
	}

	commandType := provisional.CommandType
	if commandType == "" {
		commandType = "(none)"
	}

	return fmt.Sprintf(enrichmentPromptTemplate, text, commandType, params)
}

func (s *assistantService) enrich(ctx context.Context, text string, provisional entity.Classification) entity.AnalyzeResult {
	return s.generate(ctx, operationVoiceCommand, buildEnrichmentPrompt(text, provisional), true)
}

// generate makes one model call. Any failure yields the fixed fallback answer;
// the model is never asked a second time for the same request.
func (s *assistantService) generate(ctx context.Context, operation, prompt string, wantEnrichment bool) entity.AnalyzeResult {
	if s.enrichmentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.enrichmentTimeout)
		defer cancel()
	}

	result, err := resilience.Degrade(ctx, s.executor, operation,
		func(ctx context.Context) (entity.AnalyzeResult, error) {
			reply, err := s.model.Generate(ctx, prompt, wantEnrichment)
			if err != nil {
				return entity.AnalyzeResult{}, err
			}

			if wantEnrichment {
				if _, err := understanding.ParseEnrichment(reply); err != nil {
					return entity.AnalyzeResult{}, fmt.Errorf("%w: %w", ErrUnparseableReply, err)
				}
			}

			return entity.AnalyzeResult{Response: reply, Source: s.model.Name()}, nil
		},
		func(error) entity.AnalyzeResult {
			return entity.AnalyzeResult{Response: FallbackResponse, Source: entity.SourceFallback}
		},
	)

	tier := failureTier(err)
	s.metrics.RecordEnrichment(operation, result.Source, tier)

	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"operation":  operation,
			"failure":    tier,
			"error":      err.Error(),
		}).Warn("[assistantService.generate] model unavailable, using fallback answer")
	}

	return result
}

func failureTier(err error) string {
	if err == nil {
		return failureNone
	}

	var netErr net.Error
	var urlErr *url.Error

	switch {
	case resilience.IsCircuitOpen(err):
		return failureCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return failureTimeout
	case errors.Is(err, context.Canceled):
		return failureCanceled
	case errors.As(err, &netErr), errors.As(err, &urlErr):
		return failureTransport
	default:
		return failureModel
	}
}
