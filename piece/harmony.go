package piece

import (
	"math/big"

	"github.com/IrisMu01/midi-gen-mcp/errs"
)

// FlagNotes clears flagged on every note, then flags each note whose track
// is in tracks and whose start lies in [s,e) if its pitch class is absent
// from the chord active at that beat. Returns the number flagged. Fails
// with NoProgression only when the chord progression is empty AND at
// least one candidate note exists in range; validation happens before any
// write so a NoProgression error leaves the document untouched (I8).
func (s *Store) FlagNotes(tracks []string, start, end *big.Rat) (int, error) {
	trackSet := make(map[string]bool, len(tracks))
	for _, t := range tracks {
		trackSet[t] = true
	}

	var candidates []*Note
	for _, n := range s.Doc.Notes {
		if trackSet[n.Track] && n.Start.Cmp(start) >= 0 && n.Start.Cmp(end) < 0 {
			candidates = append(candidates, n)
		}
	}

	if len(s.Doc.Chords) == 0 && len(candidates) > 0 {
		return 0, errs.New(errs.NoProgression, "chord progression is empty")
	}

	s.checkpoint()
	for _, n := range s.Doc.Notes {
		n.Flagged = false
	}

	flagged := 0
	for _, n := range candidates {
		chord := chordAt(s.Doc.Chords, n.Start)
		if chord == nil {
			continue
		}
		pc := ((n.Pitch % 12) + 12) % 12
		if !toneClassesContain(chord.ToneClasses, pc) {
			n.Flagged = true
			flagged++
		}
	}
	return flagged, nil
}

func chordAt(chords []*ChordEntry, beat *big.Rat) *ChordEntry {
	for _, c := range chords {
		end := chordEnd(c)
		if c.Beat.Cmp(beat) <= 0 && beat.Cmp(end) < 0 {
			return c
		}
	}
	return nil
}

func toneClassesContain(classes []int, pc int) bool {
	for _, c := range classes {
		if c == pc {
			return true
		}
	}
	return false
}

// RemoveFlaggedNotes deletes every flagged note and returns the removed
// notes for auditability.
func (s *Store) RemoveFlaggedNotes() []*Note {
	s.checkpoint()
	remaining := s.Doc.Notes[:0:0]
	var removed []*Note
	for _, n := range s.Doc.Notes {
		if n.Flagged {
			removed = append(removed, n)
			continue
		}
		remaining = append(remaining, n)
	}
	s.Doc.Notes = remaining
	return removed
}
