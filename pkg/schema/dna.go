package schema

import "strings"

// DNAPillar is one descriptive facet of a book.
type DNAPillar struct {
	FullText string `json:"full_text" jsonschema_description:"Complete pillar description"`
	Summary  string `json:"summary" jsonschema_description:"2-3 word summary for search"`
}

// SettingPillar is the setting facet with a time/place/vibe breakdown.
type SettingPillar struct {
	Time     string `json:"time" jsonschema_description:"Time period or era"`
	Place    string `json:"place" jsonschema_description:"Geographic location or setting"`
	Vibe     string `json:"vibe" jsonschema_description:"Atmospheric or sensory quality"`
	FullText string `json:"full_text" jsonschema_description:"Complete setting description"`
	Summary  string `json:"summary" jsonschema_description:"2-3 word summary for search"`
}

// BookDNA is the complete six-pillar profile of a book. BookID and Title are
// overwritten by the caller after extraction; the model's echo of them is not
// trusted for identity.
type BookDNA struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
	Genre  string `json:"genre" jsonschema_description:"Book genre (e.g. 'Hard sci-fi', 'Literary fiction')"`

	Setting          SettingPillar `json:"setting"`
	NarrativeEngine  DNAPillar     `json:"narrative_engine"`
	ProseTexture     DNAPillar     `json:"prose_texture"`
	EmotionalProfile DNAPillar     `json:"emotional_profile"`
	StructuralQuirks DNAPillar     `json:"structural_quirks"`
	Theme            DNAPillar     `json:"theme"`

	Dealbreakers []string `json:"dealbreakers" jsonschema_description:"4 common polarizing tropes"`
}

// PillarNames is the closed set of pillar names, in canonical order. Any
// pillar name accepted as input must validate against this set.
var PillarNames = []string{
	"setting",
	"narrative_engine",
	"prose_texture",
	"emotional_profile",
	"structural_quirks",
	"theme",
}

type pillarAccessor struct {
	label    string
	fullText func(*BookDNA) string
}

var pillarAccessors = map[string]pillarAccessor{
	"setting":           {"Setting", func(d *BookDNA) string { return d.Setting.FullText }},
	"narrative_engine":  {"Narrative Engine", func(d *BookDNA) string { return d.NarrativeEngine.FullText }},
	"prose_texture":     {"Prose Texture", func(d *BookDNA) string { return d.ProseTexture.FullText }},
	"emotional_profile": {"Emotional Profile", func(d *BookDNA) string { return d.EmotionalProfile.FullText }},
	"structural_quirks": {"Structural Quirks", func(d *BookDNA) string { return d.StructuralQuirks.FullText }},
	"theme":             {"Theme", func(d *BookDNA) string { return d.Theme.FullText }},
}

func ValidPillar(name string) bool {
	_, ok := pillarAccessors[name]
	return ok
}

// InvalidPillars returns the subset of names outside the closed pillar set.
func InvalidPillars(names []string) []string {
	var bad []string
	for _, name := range names {
		if !ValidPillar(name) {
			bad = append(bad, name)
		}
	}
	return bad
}

// PillarDescriptions renders "<Label>: <full text>" lines for the selected
// pillars, in selection order. Unknown names are skipped; callers validate
// against PillarNames before getting here.
func PillarDescriptions(dna *BookDNA, selected []string) []string {
	descriptions := make([]string, 0, len(selected))
	for _, name := range selected {
		acc, ok := pillarAccessors[name]
		if !ok {
			continue
		}
		descriptions = append(descriptions, acc.label+": "+acc.fullText(dna))
	}
	return descriptions
}

// PillarText joins pillar descriptions into the bulleted block used by the
// finder, ranker, and writer prompts.
func PillarText(dna *BookDNA, selected []string) string {
	descriptions := PillarDescriptions(dna, selected)
	lines := make([]string, 0, len(descriptions))
	for _, desc := range descriptions {
		lines = append(lines, "- "+desc)
	}
	return strings.Join(lines, "\n")
}

// DealbreakerText renders the comma-joined dealbreaker list for prompts.
func DealbreakerText(dealbreakers []string) string {
	if len(dealbreakers) == 0 {
		return "None"
	}
	return strings.Join(dealbreakers, ", ")
}
