package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janmitra/civic-complaints/src/ai/gemini"
)

// scriptedGen answers each model with a canned text or error and records the
// order models were tried in.
type scriptedGen struct {
	answers map[string]string
	fails   map[string]error
	tried   []string
}

func (g *scriptedGen) GenerateContent(_ context.Context, model string, _ []gemini.Part, _ gemini.GenConfig) (string, error) {
	g.tried = append(g.tried, model)
	if err, ok := g.fails[model]; ok {
		return "", err
	}
	return g.answers[model], nil
}

const okJSON = `{"category":"water","suggestion":"Unblock the storm drain before the next rain.","ward_id":45,"ward_name":"whatever"}`

func TestClassifyFirstModelWins(t *testing.T) {
	gen := &scriptedGen{answers: map[string]string{"m1": okJSON}}
	clf := New(gen, []string{"m1", "m2"})

	res, err := clf.Classify(context.Background(), Request{Description: "drain overflow"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, gen.tried)
	assert.Equal(t, "water", res.Category)
	assert.Equal(t, 45, res.WardID)
	assert.Equal(t, "Rohini", res.WardName)
}

func TestClassifyFallsThroughOnRateLimit(t *testing.T) {
	gen := &scriptedGen{
		fails:   map[string]error{"m1": &gemini.APIError{StatusCode: 429, RetryAfter: 30 * time.Second}},
		answers: map[string]string{"m2": okJSON},
	}
	clf := New(gen, []string{"m1", "m2"})

	res, err := clf.Classify(context.Background(), Request{Description: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, gen.tried)
	assert.Equal(t, "water", res.Category)
}

func TestClassifyAllModelsFailReportsLastError(t *testing.T) {
	gen := &scriptedGen{fails: map[string]error{
		"m1": &gemini.APIError{StatusCode: 500, Body: "boom"},
		"m2": &gemini.APIError{StatusCode: 429, RetryAfter: 30 * time.Second, Body: "quota"},
	}}
	clf := New(gen, []string{"m1", "m2"})

	_, err := clf.Classify(context.Background(), Request{Description: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 attempt(s)")
	assert.Contains(t, err.Error(), "model m2")
	// The advertised wait from the final 429 surfaces to the caller.
	assert.Contains(t, err.Error(), "retry in 30s")

	var apiErr *gemini.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.StatusCode)
}

func TestClassifySkipsUnparseableResponse(t *testing.T) {
	gen := &scriptedGen{answers: map[string]string{
		"m1": "I cannot help with that.",
		"m2": okJSON,
	}}
	clf := New(gen, []string{"m1", "m2"})

	res, err := clf.Classify(context.Background(), Request{Description: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, gen.tried)
	assert.Equal(t, 45, res.WardID)
}

func TestClassifySkipsLowQualitySuggestion(t *testing.T) {
	gen := &scriptedGen{answers: map[string]string{
		"m1": `{"category":"air","suggestion":"fix","ward_id":10,"ward_name":"x"}`,
		"m2": okJSON,
	}}
	clf := New(gen, []string{"m1", "m2"})

	res, err := clf.Classify(context.Background(), Request{Description: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, gen.tried)
	assert.Equal(t, "water", res.Category)
}

func TestClassifyLowQualityOnAllModels(t *testing.T) {
	short := `{"category":"air","suggestion":"fix","ward_id":10,"ward_name":"x"}`
	gen := &scriptedGen{answers: map[string]string{"m1": short, "m2": short}}
	clf := New(gen, []string{"m1", "m2"})

	_, err := clf.Classify(context.Background(), Request{Description: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errLowQuality)
}

func TestClassifyFencedSalvagedResponse(t *testing.T) {
	gen := &scriptedGen{answers: map[string]string{
		"m1": "```json\n{\"category\": \"SOIL\", \"suggestion\": \"Remove the debris and book the contractor.\", \"ward_id\": \"300\",}\n```",
	}}
	clf := New(gen, []string{"m1"})

	res, err := clf.Classify(context.Background(), Request{Description: "debris dumping"})
	require.NoError(t, err)
	assert.Equal(t, "soil", res.Category)
	assert.Equal(t, 250, res.WardID)
	assert.Equal(t, "Laxmi Nagar", res.WardName)
}

func TestClassifyCancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &scriptedGen{fails: map[string]error{
		"m1": context.Canceled,
		"m2": errors.New("should never be reached"),
	}}
	clf := New(gen, []string{"m1", "m2"})

	_, err := clf.Classify(ctx, Request{Description: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"m1"}, gen.tried)
}

func TestClassifyEmptyModelListUsesDefaults(t *testing.T) {
	gen := &scriptedGen{answers: map[string]string{DefaultModels[0]: okJSON}}
	clf := New(gen, nil)

	_, err := clf.Classify(context.Background(), Request{Description: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultModels[0]}, gen.tried)
}
