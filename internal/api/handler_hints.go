package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/ryanbastic/go-escaperoom/internal/hints"
	"github.com/ryanbastic/go-escaperoom/internal/metrics"
)

type SuggestHintBody struct {
	Answer       string `json:"answer" doc:"Answer the hint should point to" required:"true" minLength:"1"`
	ClueText     string `json:"clueText,omitempty" doc:"Clue revealed on solve"`
	ExistingHint string `json:"existingHint,omitempty" doc:"Current hint, to get a different suggestion"`
}

type SuggestHintInput struct {
	Body SuggestHintBody
}

type SuggestHintOutput struct {
	Body struct {
		Hint string `json:"hint" doc:"Suggested hint text"`
	}
}

type HintHandler struct {
	suggester hints.Suggester
	logger    *slog.Logger
}

func NewHintHandler(suggester hints.Suggester, logger *slog.Logger) *HintHandler {
	return &HintHandler{suggester: suggester, logger: logger}
}

func registerHintRoutes(api huma.API, h *HintHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "suggest-hint",
		Method:      http.MethodPost,
		Path:        "/v1/hints/suggest",
		Summary:     "Suggest a hint for a puzzle answer",
		Tags:        []string{"hints"},
	}, h.SuggestHint)
}

func (h *HintHandler) SuggestHint(ctx context.Context, input *SuggestHintInput) (*SuggestHintOutput, error) {
	if h.suggester == nil {
		metrics.ObserveHintSuggestion(metrics.HintUnavailable)
		return nil, huma.Error503ServiceUnavailable("hint suggestions are not configured")
	}

	hint, err := h.suggester.Suggest(ctx, hints.Request{
		Answer:   input.Body.Answer,
		Clue:     input.Body.ClueText,
		Existing: input.Body.ExistingHint,
	})
	switch {
	case errors.Is(err, hints.ErrEmptyAnswer):
		return nil, huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, hints.ErrUnavailable):
		h.logger.Warn("hint suggestion unavailable", "error", err)
		return nil, huma.Error503ServiceUnavailable("hint suggestions are temporarily unavailable")
	case err != nil:
		h.logger.Error("hint suggestion failed", "error", err)
		return nil, huma.Error502BadGateway("hint suggestion failed")
	}

	out := &SuggestHintOutput{}
	out.Body.Hint = hint
	return out, nil
}
