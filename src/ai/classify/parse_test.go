package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrictJSON(t *testing.T) {
	f, tier := parseResponse(`{"category":"water","suggestion":"Unblock the drain near gate 2.","ward_id":45,"ward_name":"Rohini"}`)
	assert.Equal(t, tierStrict, tier)
	assert.Equal(t, "water", f.Category)
	assert.Equal(t, "Unblock the drain near gate 2.", f.Suggestion)
	assert.Equal(t, "45", f.WardID)
	assert.Equal(t, "Rohini", f.WardName)
}

func TestParseStrictJSONStringWardID(t *testing.T) {
	f, tier := parseResponse(`{"category":"air","suggestion":"Inspect the burning site.","ward_id":"112","ward_name":"X"}`)
	assert.Equal(t, tierStrict, tier)
	assert.Equal(t, "112", f.WardID)
}

func TestParseFencedJSONMatchesBare(t *testing.T) {
	bare := `{"category":"noise","suggestion":"Check loudspeaker permits.","ward_id":7,"ward_name":"Bawana"}`
	fenced := "```json\n" + bare + "\n```"

	fb, tb := parseResponse(bare)
	ff, tf := parseResponse(fenced)
	assert.Equal(t, tierStrict, tb)
	assert.Equal(t, tierStrict, tf)
	assert.Equal(t, fb, ff)
}

func TestStripFencesIdempotent(t *testing.T) {
	cases := []string{
		"```json\n{\"a\":1}\n```",
		"```\n{\"a\":1}\n```",
		"{\"a\":1}",
		"  ```JSON\n{\"a\":1}\n```  ",
	}
	for _, in := range cases {
		once := stripFences(in)
		assert.Equal(t, once, stripFences(once), "input %q", in)
	}
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
}

func TestStripFencesKeepsNonFenceBackticks(t *testing.T) {
	// A fence-looking opener with a long first line is payload, not a tag.
	in := "```this is not a language tag, just text\nmore"
	out := stripFences(in)
	assert.Contains(t, out, "this is not a language tag")
}

func TestSalvageFromBrokenJSON(t *testing.T) {
	// Trailing comma makes strict parsing fail; salvage should still work.
	text := `{"category": "soil", "suggestion": "Clear the debris pile and fence the plot.", "ward_id": 171, "ward_name": "Dwarka",}`
	f, tier := parseResponse(text)
	assert.Equal(t, tierSalvage, tier)
	assert.Equal(t, "soil", f.Category)
	assert.Equal(t, "Clear the debris pile and fence the plot.", f.Suggestion)
	assert.Equal(t, "171", f.WardID)
	assert.Equal(t, "Dwarka", f.WardName)
}

func TestSalvageProseWithEmbeddedFields(t *testing.T) {
	text := "Sure! Here is the analysis: category: \"transport\" and ward_id: 45. suggestion: \"Patch the potholes on the main carriageway.\""
	f, tier := parseResponse(text)
	require.Equal(t, tierSalvage, tier)
	assert.Equal(t, "transport", f.Category)
	assert.Equal(t, "45", f.WardID)
	assert.Equal(t, "Patch the potholes on the main carriageway.", f.Suggestion)
}

func TestSalvageEscapedQuotes(t *testing.T) {
	text := `garbage { "suggestion": "Remove the \"temporary\" stalls." oops`
	f, tier := parseResponse(text)
	require.Equal(t, tierSalvage, tier)
	assert.Equal(t, `Remove the "temporary" stalls.`, f.Suggestion)
}

func TestSalvageNegativeWardID(t *testing.T) {
	f, tier := parseResponse(`broken "ward_id": -3 "suggestion": "Send an inspection team this week."`)
	require.Equal(t, tierSalvage, tier)
	assert.Equal(t, "-3", f.WardID)
}

func TestParseGarbageIsTierNone(t *testing.T) {
	for _, text := range []string{
		"",
		"I could not process this request.",
		"<<<>>>",
	} {
		_, tier := parseResponse(text)
		assert.Equal(t, tierNone, tier, "input %q", text)
	}
}
