// ABOUTME: Result envelopes and mapping of tracker failures to caller-facing text
// ABOUTME: Internal error detail is logged and never returned to the caller

package tools

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/2389/calorie-gateway/internal/tracker"
)

func textResult(text string) Result {
	return Result{Text: text}
}

func errorResult(text string) Result {
	return Result{Text: text, IsError: true}
}

// jsonResult renders v as indented JSON.
func (h *handlers) jsonResult(tool string, v any) Result {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		h.logger.Error("encoding tool result", "tool", tool, "error", err)
		return errorResult("Failed to encode result. Please try again.")
	}
	return textResult(string(b))
}

// fail converts err into an error result.
func (h *handlers) fail(tool string, err error) Result {
	var pe *ParamError
	if errors.As(err, &pe) {
		return errorResult(pe.Error())
	}
	var te *tracker.Error
	if errors.As(err, &te) {
		return errorResult(te.Message)
	}
	h.logger.Error("unexpected tool failure", "tool", tool, "error", err)
	return errorResult("Request failed. Please try again.")
}

type handlers struct {
	svc    *tracker.Service
	logger *slog.Logger
}
