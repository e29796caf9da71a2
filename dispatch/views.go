package dispatch

import (
	"github.com/IrisMu01/midi-gen-mcp/piece"
	"github.com/IrisMu01/midi-gen-mcp/theory"
)

func okResult() map[string]any {
	return map[string]any{"ok": true}
}

func trackView(t *piece.Track) map[string]any {
	return map[string]any{"name": t.Name, "instrument": t.Instrument}
}

func tracksView(tracks []*piece.Track) []map[string]any {
	out := make([]map[string]any, len(tracks))
	for i, t := range tracks {
		out[i] = trackView(t)
	}
	return out
}

func sectionView(s *piece.Section) map[string]any {
	return map[string]any{
		"name":           s.Name,
		"start_measure":  s.StartMeasure,
		"end_measure":    s.EndMeasure,
		"tempo":          s.Tempo,
		"time_signature": s.TimeSignature,
		"key":            s.Key,
		"description":    s.Description,
	}
}

func sectionsView(sections []*piece.Section) []map[string]any {
	out := make([]map[string]any, len(sections))
	for i, s := range sections {
		out[i] = sectionView(s)
	}
	return out
}

func noteView(n *piece.Note) map[string]any {
	v := map[string]any{
		"track":    n.Track,
		"pitch":    n.Pitch,
		"start":    theory.ToFloat(n.Start),
		"duration": theory.ToFloat(n.Duration),
	}
	if n.Flagged {
		v["flagged"] = true
	}
	return v
}

func notesView(notes []*piece.Note) []map[string]any {
	out := make([]map[string]any, len(notes))
	for i, n := range notes {
		out[i] = noteView(n)
	}
	return out
}

func chordView(c *piece.ChordEntry) map[string]any {
	return map[string]any{
		"beat":        theory.ToFloat(c.Beat),
		"chord":       c.Symbol,
		"duration":    theory.ToFloat(c.Duration),
		"chord_tones": c.Tones,
	}
}

func chordsView(chords []*piece.ChordEntry) []map[string]any {
	out := make([]map[string]any, len(chords))
	for i, c := range chords {
		out[i] = chordView(c)
	}
	return out
}
