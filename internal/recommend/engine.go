package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

// Completer issues one prompt to the completion service and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// MinPreferencesLen is the shortest preference description accepted. Shorter
// input is rejected locally and never reaches the completion service.
const MinPreferencesLen = 10

var (
	// ErrTooShort marks input rejected by local validation.
	ErrTooShort = fmt.Errorf("preferences must be at least %d characters", MinPreferencesLen)
	// ErrBusy is returned while an earlier request is still outstanding.
	ErrBusy = errors.New("a recommendation request is already in progress")
)

// Outcome carries the single textual result. Empty marks a successful call
// that produced no usable text, which is not a failure.
type Outcome struct {
	Recommendations string
	Empty           bool
}

const recommendPrompt = `You are an expert car recommendation engine.

Based on the user's preferences, recommend a list of vehicles that match their criteria.

User preferences: %s

Provide the recommendations in a readable format.`

// Engine validates preference input and runs at most one request at a time.
// Overlapping requests are rejected rather than queued or cancelled.
type Engine struct {
	completer Completer
	log       *slog.Logger
	busy      atomic.Bool
}

// NewEngine wires the recommendation pipeline.
func NewEngine(completer Completer, log *slog.Logger) *Engine {
	return &Engine{completer: completer, log: log}
}

// Recommend turns a free-text preference description into recommendation
// text. Any transport or service failure surfaces as a single opaque error
// category; no retry, no partial result.
func (e *Engine) Recommend(ctx context.Context, preferences string) (Outcome, error) {
	trimmed := strings.TrimSpace(preferences)
	if utf8.RuneCountInString(trimmed) < MinPreferencesLen {
		return Outcome{}, ErrTooShort
	}

	if !e.busy.CompareAndSwap(false, true) {
		return Outcome{}, ErrBusy
	}
	defer e.busy.Store(false)

	text, err := e.completer.Complete(ctx, fmt.Sprintf(recommendPrompt, trimmed))
	if err != nil {
		e.log.Error("completion call", slog.Any("err", err))
		return Outcome{}, fmt.Errorf("completion service: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{Empty: true}, nil
	}
	return Outcome{Recommendations: text}, nil
}
