package classify

import (
	"strconv"
	"strings"

	"github.com/janmitra/civic-complaints/src/shared/wards"
)

// normalize clamps every raw field into a safe domain value. It is applied
// uniformly no matter which parse tier produced the fields. The only error
// it can return is the quality rejection for a too-short suggestion.
func normalize(f rawFields, req Request) (Result, error) {
	res := Result{
		Category: normalizeCategory(f.Category),
		WardID:   resolveWardID(f.WardID, req.FallbackWardID),
	}

	// Never trust the model's ward name; the gazetteer is canonical.
	if w, ok := wards.Get(res.WardID); ok {
		res.WardName = w.Name
	} else {
		res.WardName = "Ward " + strconv.Itoa(res.WardID)
	}

	suggestion := strings.TrimSpace(f.Suggestion)
	switch {
	case suggestion == "":
		res.Suggestion = fallbackSuggestion
	case len(suggestion) < minSuggestionLen:
		return Result{}, errLowQuality
	default:
		res.Suggestion = suggestion
	}
	return res, nil
}

// ValidCategory reports whether s is one of the six known categories.
func ValidCategory(s string) bool {
	for _, known := range Categories {
		if s == known {
			return true
		}
	}
	return false
}

func normalizeCategory(raw string) string {
	cat := strings.ToLower(strings.TrimSpace(raw))
	for _, known := range Categories {
		if cat == known {
			return cat
		}
	}
	return DefaultCategory
}

// resolveWardID coerces the textual ward id and clamps it into range. A
// missing or non-numeric id falls back to the citizen's registered ward,
// then to ward 1.
func resolveWardID(raw string, fallback int) int {
	if id, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return wards.Clamp(id)
	}
	if wards.Valid(fallback) {
		return fallback
	}
	return wards.MinID
}
