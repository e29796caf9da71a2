package piece

import "github.com/IrisMu01/midi-gen-mcp/errs"

// AddTrack creates a track. Fails with SchemaViolation if name is empty,
// DuplicateName if a track with that name already exists (I1).
func (s *Store) AddTrack(name, instrument string) error {
	if name == "" {
		return errs.New(errs.SchemaViolation, "track name must not be empty")
	}
	if s.Doc.TrackByName(name) != nil {
		return errs.New(errs.DuplicateName, "track %q already exists", name)
	}

	s.checkpoint()
	s.Doc.Tracks = append(s.Doc.Tracks, &Track{Name: name, Instrument: instrument})
	return nil
}

// RemoveTrack deletes a track and cascades to every note referencing it,
// returning the number of notes removed. Fails with NotFound if the track
// does not exist.
func (s *Store) RemoveTrack(name string) (int, error) {
	idx := -1
	for i, t := range s.Doc.Tracks {
		if t.Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, errs.New(errs.NotFound, "track %q does not exist", name)
	}

	s.checkpoint()

	remaining := s.Doc.Notes[:0:0]
	removed := 0
	for _, n := range s.Doc.Notes {
		if n.Track == name {
			removed++
			continue
		}
		remaining = append(remaining, n)
	}
	s.Doc.Notes = remaining
	s.Doc.Tracks = append(s.Doc.Tracks[:idx], s.Doc.Tracks[idx+1:]...)

	return removed, nil
}

// GetTracks returns the tracks in declaration order.
func (s *Store) GetTracks() []*Track {
	return s.Doc.Tracks
}
