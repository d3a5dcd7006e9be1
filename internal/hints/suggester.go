// Package hints suggests puzzle hints for the room editor from a language model.
// Suggestions are advisory: the designer copies them into hintText by hand.
package hints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ryanbastic/go-escaperoom/internal/circuitbreaker"
	"github.com/ryanbastic/go-escaperoom/internal/metrics"
)

var (
	// ErrUnavailable is returned when no model is configured or the breaker is open.
	ErrUnavailable = errors.New("hint suggestions unavailable")

	// ErrEmptyAnswer is returned when asked for a hint without an answer to hint at.
	ErrEmptyAnswer = errors.New("answer is required")
)

// MaxHintLength bounds the suggestion returned to the editor.
const MaxHintLength = 280

// Generator produces a JSON reply for a prompt. *GeminiClient implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request describes the puzzle to write a hint for.
type Request struct {
	Answer   string
	Clue     string
	Existing string
}

// Suggester is what the HTTP layer depends on.
type Suggester interface {
	Suggest(ctx context.Context, req Request) (string, error)
}

// Service implements Suggester on top of a Generator guarded by a circuit breaker.
type Service struct {
	gen     Generator
	breaker *circuitbreaker.Breaker
}

// NewService returns a Service. A nil gen yields a Service that always reports ErrUnavailable.
func NewService(gen Generator, breaker *circuitbreaker.Breaker) *Service {
	return &Service{gen: gen, breaker: breaker}
}

// Suggest returns a single hint sentence that points at req.Answer without revealing it.
func (s *Service) Suggest(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Answer) == "" {
		return "", ErrEmptyAnswer
	}
	if s.gen == nil {
		metrics.ObserveHintSuggestion(metrics.HintUnavailable)
		return "", ErrUnavailable
	}

	var hint string
	call := func(ctx context.Context) error {
		raw, err := s.gen.Generate(ctx, buildPrompt(req))
		if err != nil {
			return err
		}
		hint, err = parseHint(raw, req.Answer)
		return err
	}

	var err error
	if s.breaker != nil {
		err = s.breaker.Do(ctx, call)
	} else {
		err = call(ctx)
	}

	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		metrics.ObserveHintSuggestion(metrics.HintBreakerOpen)
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	case err != nil:
		metrics.ObserveHintSuggestion(metrics.HintError)
		return "", fmt.Errorf("suggest hint: %w", err)
	}
	metrics.ObserveHintSuggestion(metrics.HintOK)
	return hint, nil
}

const promptTemplate = `You write hints for an escape-room puzzle.
The player must type the answer %q.
%sWrite ONE short hint (at most 25 words) that nudges the player toward the answer without containing it.
Reply ONLY with JSON of the form {"hint": "<text>"}, no markdown.`

func buildPrompt(req Request) string {
	var extra strings.Builder
	if c := strings.TrimSpace(req.Clue); c != "" {
		fmt.Fprintf(&extra, "Solving it reveals this clue: %q.\n", c)
	}
	if e := strings.TrimSpace(req.Existing); e != "" {
		fmt.Fprintf(&extra, "The designer's current hint is %q; suggest a different one.\n", e)
	}
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(req.Answer), extra.String())
}

type hintReply struct {
	Hint string `json:"hint"`
}

// parseHint rejects replies that give the answer away.
func parseHint(raw, answer string) (string, error) {
	var reply hintReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &reply); err != nil {
		return "", fmt.Errorf("parse hint JSON: %w", err)
	}

	hint := strings.TrimSpace(reply.Hint)
	if hint == "" {
		return "", fmt.Errorf("model returned an empty hint")
	}
	if strings.Contains(strings.ToLower(hint), strings.ToLower(strings.TrimSpace(answer))) {
		return "", fmt.Errorf("model hint reveals the answer")
	}
	if r := []rune(hint); len(r) > MaxHintLength {
		hint = string(r[:MaxHintLength])
	}
	return hint, nil
}
