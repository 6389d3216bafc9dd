package classify

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/janmitra/civic-complaints/src/ai/gemini"
	"github.com/janmitra/civic-complaints/src/shared/wards"
)

// Disambiguation rules shown to the model, one line per category. Keys must
// cover Categories exactly.
var categoryRules = map[string]string{
	"air":       "smoke, burning, dust clouds, foul smell in the air, vehicle or industrial emissions",
	"water":     "sewage overflow, blocked drains, dirty or contaminated water supply, waterlogging",
	"noise":     "loudspeakers, construction noise, honking, industrial noise at odd hours",
	"transport": "broken roads, potholes, unsafe footpaths, encroached carriageways, faulty signals",
	"soil":      "garbage dumping on open ground, construction debris, contaminated or eroded soil",
	"land":      "encroachment, illegal construction, abandoned plots, anything not covered above",
}

// BuildPrompt serializes a draft into the ordered message parts for the
// generation endpoint: inline image first when present, then one text part.
// Pure function of its inputs; no network access.
func BuildPrompt(req Request) []gemini.Part {
	var parts []gemini.Part
	if req.Image != nil && len(req.Image.Data) > 0 {
		parts = append(parts, gemini.Part{InlineData: &gemini.Blob{
			MIMEType: req.Image.MIME,
			Data:     base64.StdEncoding.EncodeToString(req.Image.Data),
		}})
	}

	var b strings.Builder
	b.WriteString("You classify citizen complaints for a municipal corporation with wards numbered 1 to 250.\n\n")

	b.WriteString("Complaint description: ")
	b.WriteString(strings.TrimSpace(req.Description))
	b.WriteString("\n\n")

	b.WriteString("Pick exactly one category:\n")
	for _, cat := range Categories {
		fmt.Fprintf(&b, "- %s: %s\n", cat, categoryRules[cat])
	}
	b.WriteString("\n")

	writeWardHint(&b, req)

	b.WriteString("Also write a short practical remediation suggestion (one or two sentences) naming a concrete next step for the ward team.\n\n")

	// The generator tends to wrap answers in fences or emit stray quotes;
	// the format rules below cut down on unparseable output.
	b.WriteString("Respond with a single minified JSON object and nothing else, ")
	b.WriteString(`with fields "category", "suggestion", "ward_id", "ward_name". `)
	b.WriteString("Do not wrap the JSON in markdown code fences. ")
	b.WriteString("Do not use double quote characters inside string values.\n")

	parts = append(parts, gemini.Part{Text: b.String()})
	return parts
}

func writeWardHint(b *strings.Builder, req Request) {
	switch {
	case strings.TrimSpace(req.LocationText) != "":
		fmt.Fprintf(b, "The citizen described the location as: %q.\n", strings.TrimSpace(req.LocationText))
		b.WriteString("Match it against this area => ward table and set ward_id accordingly:\n")
		for _, line := range wards.HintLines() {
			b.WriteString(line)
			b.WriteString("\n")
		}
		if wards.Valid(req.FallbackWardID) {
			fmt.Fprintf(b, "If no area matches, use ward %d.\n", req.FallbackWardID)
		} else {
			b.WriteString("If no area matches, pick the most likely ward from context.\n")
		}
	case wards.Valid(req.FallbackWardID):
		fmt.Fprintf(b, "No location was given; use ward %d, the citizen's registered ward.\n", req.FallbackWardID)
	default:
		b.WriteString("No location was given; pick the most likely ward from context, or ward 1 if nothing helps.\n")
	}
	b.WriteString("\n")
}
