package classify

import (
	"encoding/json"
	"regexp"
	"strings"
)

// parseTier records which strategy produced the fields so tests and logs can
// tell a clean parse from a salvage.
type parseTier int

const (
	tierNone parseTier = iota
	tierStrict
	tierSalvage
)

// rawFields is the untrusted intermediate between parsing and
// normalization. WardID stays textual until coercion.
type rawFields struct {
	Category   string
	Suggestion string
	WardID     string
	WardName   string
}

// parseResponse converts model output text into rawFields. Tier one strips
// an optional markdown fence and tries strict JSON; tier two regex-matches
// each field independently out of the raw text. tierNone means neither
// strategy found anything usable.
func parseResponse(text string) (rawFields, parseTier) {
	cleaned := stripFences(text)

	var strict struct {
		Category   string          `json:"category"`
		Suggestion string          `json:"suggestion"`
		WardID     json.RawMessage `json:"ward_id"`
		WardName   string          `json:"ward_name"`
	}
	if err := json.Unmarshal([]byte(cleaned), &strict); err == nil {
		return rawFields{
			Category:   strict.Category,
			Suggestion: strict.Suggestion,
			WardID:     strings.Trim(string(strict.WardID), `" `),
			WardName:   strict.WardName,
		}, tierStrict
	}

	fields := salvageFields(text)
	if fields == (rawFields{}) {
		return rawFields{}, tierNone
	}
	return fields, tierSalvage
}

// stripFences removes a wrapping markdown code fence, tolerating a language
// tag on the opening line. Lossless for the payload and idempotent.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 && len(strings.TrimSpace(s[:i])) <= 10 {
		// Opening line held only the fence and an optional language tag.
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Quoted string values tolerate escaped quotes inside.
var (
	categoryRe   = regexp.MustCompile(`"?category"?\s*[:=]\s*"([A-Za-z]+)"`)
	suggestionRe = regexp.MustCompile(`"?suggestion"?\s*[:=]\s*"((?:[^"\\]|\\.)*)"`)
	wardIDRe     = regexp.MustCompile(`"?ward_id"?\s*[:=]\s*"?(-?\d+)"?`)
	wardNameRe   = regexp.MustCompile(`"?ward_name"?\s*[:=]\s*"((?:[^"\\]|\\.)*)"`)
)

func salvageFields(text string) rawFields {
	var f rawFields
	if m := categoryRe.FindStringSubmatch(text); m != nil {
		f.Category = m[1]
	}
	if m := suggestionRe.FindStringSubmatch(text); m != nil {
		f.Suggestion = unescape(m[1])
	}
	if m := wardIDRe.FindStringSubmatch(text); m != nil {
		f.WardID = m[1]
	}
	if m := wardNameRe.FindStringSubmatch(text); m != nil {
		f.WardName = unescape(m[1])
	}
	return f
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}
