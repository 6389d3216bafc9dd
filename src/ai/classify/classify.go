// Package classify turns a citizen's complaint draft into a structured
// analysis: a category from the fixed vocabulary, a remediation suggestion
// and a resolved municipal ward. It builds one prompt, walks an ordered list
// of model variants and never fails on a merely malformed response as long
// as something usable can be salvaged.
package classify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/janmitra/civic-complaints/src/ai/gemini"
)

// Categories is the fixed complaint vocabulary. It must stay in lockstep
// with the disambiguation rules in prompt.go and the acceptance set in
// normalize.go.
var Categories = []string{"air", "water", "noise", "transport", "soil", "land"}

// DefaultCategory is the catch-all bucket for unknown or missing categories.
const DefaultCategory = "land"

// DefaultModels is the ordered variant list tried on each invocation.
var DefaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-1.5-flash",
}

const (
	attemptTimeout   = 45 * time.Second
	minSuggestionLen = 10
	temperature      = 0.35
	maxOutputTokens  = 512
)

// fallbackSuggestion substitutes an empty or missing model suggestion.
const fallbackSuggestion = "Thank you for reporting this issue. The concerned ward office will inspect the site and take corrective action."

// Image is an optional photo attached to the draft.
type Image struct {
	Data []byte
	MIME string
}

// Request is a complaint draft to analyze. Description may be a placeholder
// such as "see attached image" when only a photo was supplied.
// FallbackWardID is the citizen's registered ward, 0 when unknown.
type Request struct {
	Description    string
	Image          *Image
	LocationText   string
	FallbackWardID int
}

// Result is the validated analysis handed back to the caller. Category is
// always one of Categories, WardID always within the legal ward range and
// Suggestion never empty.
type Result struct {
	Category   string `json:"category"`
	Suggestion string `json:"suggestion"`
	WardID     int    `json:"ward_id"`
	WardName   string `json:"ward_name"`
}

// Generator is the slice of the gemini client the classifier needs.
type Generator interface {
	GenerateContent(ctx context.Context, model string, parts []gemini.Part, cfg gemini.GenConfig) (string, error)
}

// errLowQuality marks a structurally valid response whose suggestion fails
// the minimum-content gate; treated like any other failed model attempt.
var errLowQuality = errors.New("suggestion below minimum length")

type Classifier struct {
	gen     Generator
	models  []string
	timeout time.Duration
}

// New builds a classifier over the given generator. An empty model list
// falls back to DefaultModels.
func New(gen Generator, models []string) *Classifier {
	if len(models) == 0 {
		models = DefaultModels
	}
	return &Classifier{gen: gen, models: models, timeout: attemptTimeout}
}

// Classify runs the full pipeline: build prompt, try each model in order,
// parse and normalize the first acceptable response. Models are tried
// strictly sequentially; every recoverable failure records a last error and
// advances to the next variant. If all variants exhaust, the last recorded
// error is surfaced.
func (c *Classifier) Classify(ctx context.Context, req Request) (Result, error) {
	parts := BuildPrompt(req)
	cfg := gemini.GenConfig{
		Temperature:      temperature,
		MaxOutputTokens:  maxOutputTokens,
		ResponseMIMEType: "application/json",
	}

	var lastErr error
	for _, model := range c.models {
		text, err := c.generate(ctx, model, parts, cfg)
		if err != nil {
			if ctx.Err() != nil {
				// Caller abandoned the request; do not keep burning attempts.
				return Result{}, ctx.Err()
			}
			lastErr = fmt.Errorf("model %s: %w", model, err)
			continue
		}

		fields, tier := parseResponse(text)
		if tier == tierNone {
			lastErr = fmt.Errorf("model %s: response had no recognizable fields", model)
			continue
		}

		res, err := normalize(fields, req)
		if err != nil {
			lastErr = fmt.Errorf("model %s: %w", model, err)
			continue
		}
		return res, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no model variants configured")
	}
	return Result{}, fmt.Errorf("complaint analysis failed after %d attempt(s): %w", len(c.models), lastErr)
}

func (c *Classifier) generate(ctx context.Context, model string, parts []gemini.Part, cfg gemini.GenConfig) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.gen.GenerateContent(attemptCtx, model, parts, cfg)
}
