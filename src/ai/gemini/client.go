// Package gemini is a minimal client for the generative language REST API.
// It exposes raw status codes and error bodies so callers can decide which
// failures are worth retrying on another model variant.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/janmitra/civic-complaints/src/webclient"
)

const (
	defaultBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	maxErrorBody    = 300
	defaultRetryIn  = 60 * time.Second
	defaultMaxToken = 512
)

// ErrEmptyResponse is returned when the API answers 200 with no usable text.
var ErrEmptyResponse = errors.New("gemini: empty response payload")

// APIError is a non-2xx answer from the generation endpoint.
type APIError struct {
	StatusCode int
	Body       string        // truncated to maxErrorBody bytes
	RetryAfter time.Duration // only set for 429 responses
}

func (e *APIError) Error() string {
	if e.StatusCode == http.StatusTooManyRequests {
		return fmt.Sprintf("gemini: rate limited (429), retry in %s: %s",
			e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("gemini: status %d: %s", e.StatusCode, e.Body)
}

// Part is one entry of a request content. Exactly one field is set.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob carries inline binary data, base64 encoded.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenConfig maps onto the request generationConfig block.
type GenConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the given API key. Key presence is the
// caller's concern; config validates it before any client exists.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: webclient.NewDefault(90 * time.Second),
	}
}

// NewClientWithBase overrides the endpoint base, used by tests.
func NewClientWithBase(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig GenConfig        `json:"generationConfig"`
}

type requestContent struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) firstText() string {
	for _, cand := range r.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

// GenerateContent posts one user turn to the named model and returns the
// first candidate's text. Non-2xx statuses come back as *APIError.
func (c *Client) GenerateContent(ctx context.Context, model string, parts []Part, cfg GenConfig) (string, error) {
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = defaultMaxToken
	}
	payload := generateRequest{
		Contents:         []requestContent{{Role: "user", Parts: parts}},
		GenerationConfig: cfg,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, normalizeModel(model), c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newAPIError(resp.StatusCode, raw)
	}

	var result generateResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	text := result.firstText()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

var retryDelayRe = regexp.MustCompile(`"retryDelay"\s*:\s*"(\d+)(?:\.\d+)?s"`)

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: truncate(string(body))}
	if status == http.StatusTooManyRequests {
		e.RetryAfter = defaultRetryIn
		if m := retryDelayRe.FindStringSubmatch(string(body)); m != nil {
			if secs, err := strconv.Atoi(m[1]); err == nil && secs > 0 {
				e.RetryAfter = time.Duration(secs) * time.Second
			}
		}
	}
	return e
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}

func normalizeModel(model string) string {
	model = strings.TrimSpace(model)
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}
