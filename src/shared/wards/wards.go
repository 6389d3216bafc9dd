// Package wards holds the fixed municipal ward gazetteer: 250 wards grouped
// into administrative zones, plus a curated area-name lookup used when
// resolving free-text locations. Reference data only, never mutated.
package wards

import (
	"fmt"
	"sort"
	"strings"
)

const (
	MinID = 1
	MaxID = 250
)

// Ward is one municipal administrative unit.
type Ward struct {
	ID   int
	Name string
	Zone string
}

type zoneRange struct {
	lo, hi int
	name   string
}

// Zone boundaries follow the corporation's ward numbering.
var zoneRanges = []zoneRange{
	{1, 20, "Narela"},
	{21, 40, "Civil Lines"},
	{41, 60, "Rohini"},
	{61, 85, "Keshavpuram"},
	{86, 110, "City-Sadar Paharganj"},
	{111, 130, "Karol Bagh"},
	{131, 160, "West"},
	{161, 190, "Najafgarh"},
	{191, 215, "South"},
	{216, 235, "Central"},
	{236, 250, "Shahdara"},
}

// Named wards. Wards without an entry get a synthesized "Ward N" label.
var wardNames = map[int]string{
	3:   "Narela",
	7:   "Bawana",
	12:  "Alipur",
	22:  "Burari",
	25:  "Timarpur",
	28:  "Civil Lines",
	33:  "Model Town",
	37:  "Adarsh Nagar",
	41:  "Rithala",
	45:  "Rohini",
	47:  "Rohini North",
	52:  "Badli",
	58:  "Shalimar Bagh",
	63:  "Pitampura",
	68:  "Kohat Enclave",
	74:  "Shakurpur",
	79:  "Wazirpur",
	88:  "Sadar Bazar",
	92:  "Paharganj",
	99:  "Kashmere Gate",
	104: "Ballimaran",
	115: "Karol Bagh",
	118: "Rajender Nagar",
	122: "Patel Nagar",
	127: "Anand Parbat",
	134: "Punjabi Bagh",
	138: "Moti Nagar",
	142: "Rajouri Garden",
	147: "Tilak Nagar",
	151: "Janakpuri",
	156: "Vikaspuri",
	164: "Uttam Nagar",
	171: "Dwarka",
	178: "Najafgarh",
	184: "Palam",
	195: "Vasant Kunj",
	199: "Mehrauli",
	202: "Chhatarpur",
	206: "Saket",
	211: "Greater Kailash",
	214: "Kalkaji",
	219: "Lajpat Nagar",
	222: "Defence Colony",
	225: "Nizamuddin",
	228: "Daryaganj",
	231: "Chandni Chowk",
	238: "Seelampur",
	241: "Shahdara",
	245: "Dilshad Garden",
	248: "Mayur Vihar",
	250: "Laxmi Nagar",
}

// AreaHints maps lowercase area names to their ward, used as the compact
// gazetteer embedded in classification prompts. Keys must stay lowercase
// because location text is folded before matching.
var AreaHints = map[string]int{
	"narela":          3,
	"bawana":          7,
	"alipur":          12,
	"burari":          22,
	"timarpur":        25,
	"civil lines":     28,
	"model town":      33,
	"adarsh nagar":    37,
	"rithala":         41,
	"rohini":          45,
	"badli":           52,
	"shalimar bagh":   58,
	"pitampura":       63,
	"kohat enclave":   68,
	"shakurpur":       74,
	"wazirpur":        79,
	"sadar bazar":     88,
	"paharganj":       92,
	"kashmere gate":   99,
	"ballimaran":      104,
	"karol bagh":      115,
	"rajender nagar":  118,
	"patel nagar":     122,
	"anand parbat":    127,
	"punjabi bagh":    134,
	"moti nagar":      138,
	"rajouri garden":  142,
	"tilak nagar":     147,
	"janakpuri":       151,
	"vikaspuri":       156,
	"uttam nagar":     164,
	"dwarka":          171,
	"najafgarh":       178,
	"palam":           184,
	"vasant kunj":     195,
	"mehrauli":        199,
	"chhatarpur":      202,
	"saket":           206,
	"greater kailash": 211,
	"kalkaji":         214,
	"lajpat nagar":    219,
	"defence colony":  222,
	"nizamuddin":      225,
	"daryaganj":       228,
	"chandni chowk":   231,
	"seelampur":       238,
	"shahdara":        241,
	"dilshad garden":  245,
	"mayur vihar":     248,
	"laxmi nagar":     250,
}

// Valid reports whether id is a legal ward number.
func Valid(id int) bool {
	return id >= MinID && id <= MaxID
}

// Clamp forces id into the legal ward range.
func Clamp(id int) int {
	if id < MinID {
		return MinID
	}
	if id > MaxID {
		return MaxID
	}
	return id
}

// Name returns the canonical ward name for id, or a synthesized label when
// the ward has no curated name. Callers should Clamp first.
func Name(id int) string {
	if n, ok := wardNames[id]; ok {
		return n
	}
	return fmt.Sprintf("Ward %d", id)
}

// Zone returns the administrative zone for a ward id, empty if out of range.
func Zone(id int) string {
	for _, z := range zoneRanges {
		if id >= z.lo && id <= z.hi {
			return z.name
		}
	}
	return ""
}

// Get returns the full ward record.
func Get(id int) (Ward, bool) {
	if !Valid(id) {
		return Ward{}, false
	}
	return Ward{ID: id, Name: Name(id), Zone: Zone(id)}, true
}

// All returns every ward in id order. Used to seed the database.
func All() []Ward {
	out := make([]Ward, 0, MaxID)
	for id := MinID; id <= MaxID; id++ {
		out = append(out, Ward{ID: id, Name: Name(id), Zone: Zone(id)})
	}
	return out
}

// HintLines renders the curated area map one "area => ward" entry per line,
// sorted for deterministic prompts.
func HintLines() []string {
	areas := make([]string, 0, len(AreaHints))
	for a := range AreaHints {
		areas = append(areas, a)
	}
	sort.Strings(areas)

	lines := make([]string, 0, len(areas))
	for _, a := range areas {
		lines = append(lines, fmt.Sprintf("%s => %d", a, AreaHints[a]))
	}
	return lines
}

// MatchArea scans location text for a known area name and returns its ward.
// Longest hint wins so "rohini sector 5" does not lose to a shorter match.
func MatchArea(location string) (int, bool) {
	loc := strings.ToLower(location)
	best := ""
	bestID := 0
	for area, id := range AreaHints {
		if strings.Contains(loc, area) && len(area) > len(best) {
			best = area
			bestID = id
		}
	}
	return bestID, best != ""
}
