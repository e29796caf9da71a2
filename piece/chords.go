package piece

import (
	"math/big"
	"sort"

	"github.com/IrisMu01/midi-gen-mcp/errs"
	"github.com/IrisMu01/midi-gen-mcp/theory"
)

// ChordInput is one entry of an add_chords batch.
type ChordInput struct {
	Beat     any
	Chord    string
	Duration any
}

type resolvedChord struct {
	beat     *big.Rat
	symbol   string
	duration *big.Rat
	parsed   *theory.Chord
}

// AddChords validates and parses every entry in batch before inserting
// any of them (atomic); a malformed chord symbol, non-positive duration,
// or negative beat rejects the whole batch with the offending index.
// Successful batches insert one chord at a time in the order given,
// resolving overlaps against the progression-so-far by splitting
// existing chords around the new one.
func (s *Store) AddChords(batch []ChordInput) ([]*ChordEntry, error) {
	resolved := make([]resolvedChord, len(batch))
	for i, in := range batch {
		r, err := validateChord(in)
		if err != nil {
			e, _ := err.(*errs.Error)
			data := map[string]any{"index": i, "reason": e.Message}
			return nil, errs.WithData(e.Kind, data, "chord batch entry %d invalid: %s", i, e.Message)
		}
		resolved[i] = r
	}

	s.checkpoint()

	added := make([]*ChordEntry, 0, len(resolved))
	for _, r := range resolved {
		entry := &ChordEntry{
			Beat: r.beat, Symbol: r.symbol, Duration: r.duration,
			Tones: r.parsed.Tones, ToneClasses: r.parsed.ToneClasses,
		}
		s.Doc.Chords = splitOnInsert(s.Doc.Chords, entry)
		added = append(added, entry)
	}

	return added, nil
}

func validateChord(in ChordInput) (resolvedChord, error) {
	beat, err := theory.Evaluate(in.Beat)
	if err != nil {
		return resolvedChord{}, err
	}
	if beat.Sign() < 0 {
		return resolvedChord{}, errs.New(errs.InvalidRange, "beat must be non-negative, got %v", beat)
	}
	duration, err := theory.Evaluate(in.Duration)
	if err != nil {
		return resolvedChord{}, err
	}
	if duration.Sign() <= 0 {
		return resolvedChord{}, errs.New(errs.DurationNonPositive, "duration must be positive, got %v", duration)
	}
	parsed, err := theory.Parse(in.Chord)
	if err != nil {
		return resolvedChord{}, err
	}
	return resolvedChord{beat: beat, symbol: in.Chord, duration: duration, parsed: parsed}, nil
}

func chordEnd(c *ChordEntry) *big.Rat {
	return new(big.Rat).Add(c.Beat, c.Duration)
}

// splitOnInsert inserts n into chords, trimming or removing any existing
// chord whose interval overlaps n's so the result satisfies I4 (sorted,
// pairwise disjoint over [beat, beat+duration)).
func splitOnInsert(chords []*ChordEntry, n *ChordEntry) []*ChordEntry {
	nEnd := chordEnd(n)
	result := make([]*ChordEntry, 0, len(chords)+1)

	for _, e := range chords {
		eEnd := chordEnd(e)
		noOverlap := eEnd.Cmp(n.Beat) <= 0 || e.Beat.Cmp(nEnd) >= 0
		if noOverlap {
			result = append(result, e)
			continue
		}
		if e.Beat.Cmp(n.Beat) < 0 {
			left := cloneChordEntry(e)
			left.Duration = new(big.Rat).Sub(n.Beat, e.Beat)
			result = append(result, left)
		}
		if eEnd.Cmp(nEnd) > 0 {
			right := cloneChordEntry(e)
			right.Beat = new(big.Rat).Set(nEnd)
			right.Duration = new(big.Rat).Sub(eEnd, nEnd)
			result = append(result, right)
		}
	}

	result = append(result, n)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Beat.Cmp(result[j].Beat) < 0 })
	return result
}

func cloneChordEntry(c *ChordEntry) *ChordEntry {
	cp := *c
	cp.Beat = new(big.Rat).Set(c.Beat)
	cp.Duration = new(big.Rat).Set(c.Duration)
	cp.Tones = append([]string(nil), c.Tones...)
	cp.ToneClasses = append([]int(nil), c.ToneClasses...)
	return &cp
}

// GetChordsInRange returns chords whose interval intersects [start,end),
// sorted by beat (already maintained sorted).
func (s *Store) GetChordsInRange(start, end *big.Rat) []*ChordEntry {
	var out []*ChordEntry
	for _, c := range s.Doc.Chords {
		cEnd := chordEnd(c)
		if c.Beat.Cmp(end) < 0 && cEnd.Cmp(start) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// RemoveChordsInRange deletes any chord with any portion inside [s,e) and
// clears flagged on every note, since harmony context is now stale.
func (s *Store) RemoveChordsInRange(start, end *big.Rat) {
	s.checkpoint()
	remaining := s.Doc.Chords[:0:0]
	for _, c := range s.Doc.Chords {
		cEnd := chordEnd(c)
		overlaps := c.Beat.Cmp(end) < 0 && cEnd.Cmp(start) > 0
		if !overlaps {
			remaining = append(remaining, c)
		}
	}
	s.Doc.Chords = remaining
	for _, n := range s.Doc.Notes {
		n.Flagged = false
	}
}
