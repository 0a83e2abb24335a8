package assistantService

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"ZeroConfigAssistant/internal/api/assistant"
	"ZeroConfigAssistant/internal/entity"
	"ZeroConfigAssistant/pkg/metrics"
	"ZeroConfigAssistant/pkg/resilience"
)

// Model is a text generation backend. pkg/gemini and pkg/openai both satisfy it.
type Model interface {
	Generate(ctx context.Context, prompt string, jsonMode bool) (string, error)
	Name() string
}

type IAssistantService interface {
	ProcessVoiceCommand(ctx context.Context, req assistant.VoiceCommandRequest) (*entity.FinalResult, error)
	Analyze(ctx context.Context, req assistant.AnalyzeRequest) (*entity.AnalyzeResult, error)
}

type assistantService struct {
	log               *logrus.Logger
	model             Model
	executor          *resilience.Executor
	metrics           *metrics.Metrics
	enrichmentTimeout time.Duration
}

// New wires the command pipeline. A zero enrichmentTimeout means the model
// call is bounded only by the request context.
func New(
	log *logrus.Logger,
	model Model,
	executor *resilience.Executor,
	metrics *metrics.Metrics,
	enrichmentTimeout time.Duration,
) IAssistantService {
	return &assistantService{
		log:               log,
		model:             model,
		executor:          executor,
		metrics:           metrics,
		enrichmentTimeout: enrichmentTimeout,
	}
}
