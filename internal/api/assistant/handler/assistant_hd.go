package assistantHandler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"ZeroConfigAssistant/internal/api/assistant"
	contextPkg "ZeroConfigAssistant/pkg/context"
	"ZeroConfigAssistant/pkg/handlerUtil"
	"ZeroConfigAssistant/pkg/log"
)

// ProcessVoiceCommand answers 200 whenever the service produced a result. The
// request timeout only bounds the model call; a late model degrades the answer.
func (h *AssistantHandler) ProcessVoiceCommand(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing voice command request")

	var req assistant.VoiceCommandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, assistant.ErrInvalidJSON, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, fieldError(err, assistant.ErrMissingCommand), ctx.Path())
	}

	result, err := h.assistantService.ProcessVoiceCommand(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_voice_command")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
}

func (h *AssistantHandler) Analyze(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing analyze request")

	var req assistant.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, assistant.ErrInvalidJSON, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, fieldError(err, assistant.ErrMissingPrompt), ctx.Path())
	}

	result, err := h.assistantService.Analyze(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
}

// fieldError maps a failed "required" rule to the route's missing-parameter error.
func fieldError(err error, missing error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == "required" {
				return missing
			}
		}
	}
	return assistant.ErrInvalidJSON
}
