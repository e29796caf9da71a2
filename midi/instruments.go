package midi

import "strings"

// PercussionChannel is the standard MIDI drum channel.
const PercussionChannel = 9

// gmPrograms maps canonical instrument names to General MIDI program
// numbers (0-127). This is a representative slice of the 128-entry GM
// patch map, covering the families this corpus's own instrument tables
// (piano, strings, brass, bass) already reach for.
var gmPrograms = map[string]int{
	"piano":                 0,
	"acoustic_grand_piano":  0,
	"bright_acoustic_piano": 1,
	"electric_grand_piano":  2,
	"honky_tonk_piano":      3,
	"electric_piano_1":      4,
	"electric_piano_2":      5,
	"harpsichord":           6,
	"clavinet":              7,
	"celesta":               8,
	"glockenspiel":          9,
	"music_box":             10,
	"vibraphone":            11,
	"marimba":               12,
	"xylophone":             13,
	"organ":                 19,
	"accordion":             21,
	"acoustic_guitar_nylon": 24,
	"acoustic_guitar_steel": 25,
	"electric_guitar_clean": 27,
	"electric_guitar_muted": 28,
	"distortion_guitar":     30,
	"acoustic_bass":         32,
	"electric_bass_finger":  33,
	"electric_bass_pick":    34,
	"fretless_bass":         35,
	"slap_bass_1":           36,
	"synth_bass_1":          38,
	"violin":                40,
	"viola":                 41,
	"cello":                 42,
	"contrabass":            43,
	"strings":               48,
	"synth_strings_1":       50,
	"choir_aahs":            52,
	"trumpet":               56,
	"trombone":              57,
	"tuba":                  58,
	"french_horn":           60,
	"brass_section":         61,
	"soprano_sax":           64,
	"alto_sax":              65,
	"tenor_sax":             66,
	"baritone_sax":          67,
	"oboe":                  68,
	"english_horn":          69,
	"bassoon":               70,
	"clarinet":              71,
	"flute":                 73,
	"recorder":              74,
	"pan_flute":             75,
	"synth_lead_square":     80,
	"synth_pad_warm":        89,
	"sitar":                 104,
	"banjo":                 105,
	"steel_drums":           114,
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}

// ProgramFor returns the General MIDI program number for a canonical
// instrument name. Unknown names map to 0 (piano).
func ProgramFor(instrument string) int {
	if p, ok := gmPrograms[normalizeLabel(instrument)]; ok {
		return p
	}
	return 0
}

// IsPercussion reports whether a track name routes to the percussion
// channel (track names normalized to "drums" or "percussion").
func IsPercussion(trackName string) bool {
	label := normalizeLabel(trackName)
	return label == "drums" || label == "percussion"
}
