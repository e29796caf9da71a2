package piece

import (
	"math/big"
	"sort"

	"github.com/IrisMu01/midi-gen-mcp/errs"
	"github.com/IrisMu01/midi-gen-mcp/theory"
)

// AllTracksSentinel is the special track value remove_notes_in_range
// accepts to operate across every track.
const AllTracksSentinel = "all"

// NoteInput is one entry of an add_notes batch.
type NoteInput struct {
	Track    string
	Pitch    int
	Start    any
	Duration any
}

type resolvedNote struct {
	track    string
	pitch    int
	start    *big.Rat
	duration *big.Rat
}

// AddNotes validates every entry in batch before adding any of them
// (atomic). On the first invalid entry it returns a *errs.Error carrying
// the offending index and reason; no notes are added. Successful entries
// preserve the order given.
func (s *Store) AddNotes(batch []NoteInput) (int, error) {
	resolved := make([]resolvedNote, len(batch))
	for i, in := range batch {
		r, err := validateNote(s.Doc, in)
		if err != nil {
			e, _ := err.(*errs.Error)
			data := map[string]any{"index": i, "reason": e.Message}
			return 0, errs.WithData(e.Kind, data, "note batch entry %d invalid: %s", i, e.Message)
		}
		resolved[i] = r
	}

	s.checkpoint()
	for _, r := range resolved {
		s.Doc.Notes = append(s.Doc.Notes, &Note{
			Track: r.track, Pitch: r.pitch, Start: r.start, Duration: r.duration,
		})
	}
	return len(resolved), nil
}

func validateNote(doc *Document, in NoteInput) (resolvedNote, error) {
	if doc.TrackByName(in.Track) == nil {
		return resolvedNote{}, errs.New(errs.TrackMissing, "track %q does not exist", in.Track)
	}
	if in.Pitch < 0 || in.Pitch > 127 {
		return resolvedNote{}, errs.New(errs.PitchOutOfRange, "pitch %d out of range [0,127]", in.Pitch)
	}
	start, err := theory.Evaluate(in.Start)
	if err != nil {
		return resolvedNote{}, err
	}
	if start.Sign() < 0 {
		return resolvedNote{}, errs.New(errs.MalformedExpression, "start must be non-negative, got %v", start)
	}
	duration, err := theory.Evaluate(in.Duration)
	if err != nil {
		return resolvedNote{}, err
	}
	if duration.Sign() <= 0 {
		return resolvedNote{}, errs.New(errs.DurationNonPositive, "duration must be positive, got %v", duration)
	}
	return resolvedNote{track: in.Track, pitch: in.Pitch, start: start, duration: duration}, nil
}

// RemoveNotesInRange deletes notes with start in [s,e) (half-open),
// restricted to track unless track is AllTracksSentinel, returning the
// count removed.
func (s *Store) RemoveNotesInRange(track string, start, end *big.Rat) int {
	s.checkpoint()
	remaining := s.Doc.Notes[:0:0]
	removed := 0
	for _, n := range s.Doc.Notes {
		inTrack := track == AllTracksSentinel || n.Track == track
		inRange := n.Start.Cmp(start) >= 0 && n.Start.Cmp(end) < 0
		if inTrack && inRange {
			removed++
			continue
		}
		remaining = append(remaining, n)
	}
	s.Doc.Notes = remaining
	return removed
}

// NoteFilter narrows get_notes by track and/or beat range. Nil fields are
// unfiltered.
type NoteFilter struct {
	Track *string
	Start *big.Rat
	End   *big.Rat
}

// GetNotes returns notes matching every set filter field, sorted by start;
// notes with equal start keep their insertion order.
func (s *Store) GetNotes(f NoteFilter) []*Note {
	var out []*Note
	for _, n := range s.Doc.Notes {
		if f.Track != nil && n.Track != *f.Track {
			continue
		}
		if f.Start != nil && n.Start.Cmp(f.Start) < 0 {
			continue
		}
		if f.End != nil && n.Start.Cmp(f.End) >= 0 {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Cmp(out[j].Start) < 0 })
	return out
}
