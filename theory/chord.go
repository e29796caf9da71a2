package theory

import (
	"sort"
	"strings"

	"github.com/IrisMu01/midi-gen-mcp/errs"
)

// Chord is the result of parsing a chord symbol: a root pitch class, a
// quality tag, and the set of pitch classes the symbol implies.
type Chord struct {
	Symbol      string
	Root        string
	Quality     string
	Tones       []string // pitch-class names, root first, in interval order
	ToneClasses []int    // same tones reduced to 0-11 integers
}

type qualityDef struct {
	suffix    string
	tag       string
	intervals []int
}

// qualityTable enumerates every suffix this parser recognizes after the
// root letter (and optional accidental) is stripped: the minimum
// supported quality set.
var qualityTable = []qualityDef{
	{"", "major", []int{0, 4, 7}},
	{"maj", "major", []int{0, 4, 7}},
	{"m", "minor", []int{0, 3, 7}},
	{"min", "minor", []int{0, 3, 7}},
	{"dim", "diminished", []int{0, 3, 6}},
	{"aug", "augmented", []int{0, 4, 8}},
	{"sus2", "suspended-2", []int{0, 2, 7}},
	{"sus4", "suspended-4", []int{0, 5, 7}},
	{"6", "6", []int{0, 4, 7, 9}},
	{"m6", "minor-6", []int{0, 3, 7, 9}},
	{"min6", "minor-6", []int{0, 3, 7, 9}},
	{"7", "dominant-7", []int{0, 4, 7, 10}},
	{"maj7", "major-7", []int{0, 4, 7, 11}},
	{"M7", "major-7", []int{0, 4, 7, 11}},
	{"m7", "minor-7", []int{0, 3, 7, 10}},
	{"min7", "minor-7", []int{0, 3, 7, 10}},
	{"dim7", "diminished-7", []int{0, 3, 6, 9}},
	{"m7b5", "half-diminished", []int{0, 3, 6, 10}},
	{"min7b5", "half-diminished", []int{0, 3, 6, 10}},
	{"add9", "add9", []int{0, 4, 7, 14}},
	{"9", "9", []int{0, 4, 7, 10, 14}},
	{"m9", "minor-9", []int{0, 3, 7, 10, 14}},
	{"min9", "minor-9", []int{0, 3, 7, 10, 14}},
	{"maj9", "major-9", []int{0, 4, 7, 11, 14}},
	{"M9", "major-9", []int{0, 4, 7, 11, 14}},
	{"11", "11", []int{0, 4, 7, 10, 14, 17}},
	{"13", "13", []int{0, 4, 7, 10, 14, 21}},
}

// SupportedQualities lists the canonical quality tags, for error diagnostics.
var SupportedQualities = func() []string {
	seen := map[string]bool{}
	var out []string
	for _, q := range qualityTable {
		if !seen[q.tag] {
			seen[q.tag] = true
			out = append(out, q.tag)
		}
	}
	sort.Strings(out)
	return out
}()

var qualityBySuffix = func() map[string]qualityDef {
	m := make(map[string]qualityDef, len(qualityTable))
	for _, q := range qualityTable {
		m[q.suffix] = q
	}
	return m
}()

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
var flatNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

var rootPitchClass = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Parse maps a chord symbol to its root, quality, and pitch-class tones.
// Roots accept A-G with an optional '#' or 'b'. Enharmonics are not
// normalized: a flat-spelled root produces flat-spelled tone names, a
// sharp-spelled (or natural) root produces sharp-spelled tone names.
// Callers comparing tones against arbitrary pitches must reduce both sides
// modulo 12 first (see ToneClasses).
func Parse(symbol string) (*Chord, error) {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return nil, unknownChord(symbol)
	}

	letter := trimmed[0]
	pc, ok := rootPitchClass[letter]
	if !ok {
		return nil, unknownChord(symbol)
	}

	root := string(letter)
	rest := trimmed[1:]
	flat := false
	if len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		if rest[0] == '#' {
			pc = (pc + 1) % 12
		} else {
			pc = (pc + 11) % 12
			flat = true
		}
		root += string(rest[0])
		rest = rest[1:]
	}

	q, ok := qualityBySuffix[rest]
	if !ok {
		return nil, unknownChord(symbol)
	}

	names := sharpNames
	if flat {
		names = flatNames
	}

	tones := make([]string, len(q.intervals))
	classes := make([]int, len(q.intervals))
	for i, interval := range q.intervals {
		class := (pc + interval) % 12
		classes[i] = class
		tones[i] = names[class]
	}

	return &Chord{
		Symbol:      symbol,
		Root:        root,
		Quality:     q.tag,
		Tones:       tones,
		ToneClasses: classes,
	}, nil
}

func unknownChord(symbol string) *errs.Error {
	return errs.WithData(errs.UnknownChordSymbol, map[string]any{
		"symbol":              symbol,
		"supported_qualities": SupportedQualities,
	}, "unrecognized chord symbol %q", symbol)
}

// HasToneClass reports whether pitch class pc (0-11) is among the chord's
// tones, comparing by pitch class rather than spelling.
func (c *Chord) HasToneClass(pc int) bool {
	pc = ((pc % 12) + 12) % 12
	for _, tc := range c.ToneClasses {
		if tc == pc {
			return true
		}
	}
	return false
}
