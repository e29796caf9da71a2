// Package dispatch implements the tool dispatcher: a closed catalog of
// named operations, each validating its arguments against a fixed shape
// before forwarding to the piece store, chord parser, or MIDI emitter. An
// unrecognized tool name or a malformed argument never reaches the store
// — it is rejected here with a typed error.
package dispatch

import (
	"log"
	"path/filepath"
	"time"

	"github.com/IrisMu01/midi-gen-mcp/errs"
	"github.com/IrisMu01/midi-gen-mcp/midi"
	"github.com/IrisMu01/midi-gen-mcp/piece"
)

// Reporter captures unexpected faults encountered during dispatch. It is
// satisfied by *metrics.Reporter; kept as an interface here so dispatch
// never has to import the metrics package's Sentry dependency directly.
type Reporter interface {
	CapturePanic(tool string, recovered any)
	CaptureExportFailure(path string, err error)
	RecordDispatchDuration(tool string, d time.Duration, success bool)
}

type noopReporter struct{}

func (noopReporter) CapturePanic(string, any)                           {}
func (noopReporter) CaptureExportFailure(string, error)                 {}
func (noopReporter) RecordDispatchDuration(string, time.Duration, bool) {}

// Dispatcher routes tool calls to a single piece.Store. It is not safe for
// concurrent use — the transport adapter guarantees exactly one call is in
// flight at a time.
type Dispatcher struct {
	store     *piece.Store
	reporter  Reporter
	exportDir string
}

// New returns a Dispatcher wired to store, with fault reporting disabled.
func New(store *piece.Store) *Dispatcher {
	return &Dispatcher{store: store, reporter: noopReporter{}}
}

// NewWithReporter returns a Dispatcher that reports unexpected faults
// (panics, export I/O errors) through reporter.
func NewWithReporter(store *piece.Store, reporter Reporter) *Dispatcher {
	return &Dispatcher{store: store, reporter: reporter}
}

// SetExportDir configures the directory export_midi resolves a relative
// filepath against. The zero value resolves relative to the process's
// working directory, matching filepath.Join's behavior with "".
func (d *Dispatcher) SetExportDir(dir string) {
	d.exportDir = dir
}

// Dispatch runs one named tool call with its decoded JSON parameters and
// returns either a JSON-serializable result or a typed error. A panic
// inside the target component is recovered, reported, and surfaced as an
// IOError-flavored response rather than crashing the process.
func (d *Dispatcher) Dispatch(method string, params map[string]any) (result any, err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			d.reporter.CapturePanic(method, rec)
			err = errs.New(errs.IOError, "internal error handling %q", method)
		}
		success := err == nil
		d.reporter.RecordDispatchDuration(method, time.Since(start), success)
		outcome := "ok"
		if !success {
			outcome = "error"
		}
		log.Printf("[dispatch] %s outcome=%s duration=%s", method, outcome, time.Since(start))
	}()

	if params == nil {
		params = map[string]any{}
	}

	switch method {
	case "set_title":
		return d.setTitle(params)
	case "get_piece_info":
		return d.getPieceInfo(params)
	case "add_section":
		return d.addSection(params)
	case "edit_section":
		return d.editSection(params)
	case "get_sections":
		return d.getSections(params)
	case "add_track":
		return d.addTrack(params)
	case "remove_track":
		return d.removeTrack(params)
	case "get_tracks":
		return d.getTracks(params)
	case "add_notes":
		return d.addNotes(params)
	case "remove_notes_in_range":
		return d.removeNotesInRange(params)
	case "get_notes":
		return d.getNotes(params)
	case "add_chords":
		return d.addChords(params)
	case "get_chords_in_range":
		return d.getChordsInRange(params)
	case "remove_chords_in_range":
		return d.removeChordsInRange(params)
	case "flag_notes":
		return d.flagNotes(params)
	case "remove_flagged_notes":
		return d.removeFlaggedNotes(params)
	case "undo":
		return okResult(), d.store.Undo()
	case "redo":
		return okResult(), d.store.Redo()
	case "export_midi":
		return d.exportMIDI(params)
	default:
		return nil, errs.New(errs.UnknownTool, "unknown tool %q", method)
	}
}

func (d *Dispatcher) setTitle(params map[string]any) (any, error) {
	title, err := requireString(params, "title")
	if err != nil {
		return nil, err
	}
	if err := d.store.SetTitle(title); err != nil {
		return nil, err
	}
	return okResult(), nil
}

func (d *Dispatcher) getPieceInfo(map[string]any) (any, error) {
	info := d.store.GetPieceInfo()
	return map[string]any{
		"title":      info.Title,
		"sections":   sectionsView(info.Sections),
		"tracks":     tracksView(info.Tracks),
		"note_count": info.NoteCount,
	}, nil
}

func (d *Dispatcher) addSection(params map[string]any) (any, error) {
	name, err := requireString(params, "name")
	if err != nil {
		return nil, err
	}
	start, err := requireInt(params, "start_measure")
	if err != nil {
		return nil, err
	}
	end, err := requireInt(params, "end_measure")
	if err != nil {
		return nil, err
	}
	tempo, err := requireInt(params, "tempo")
	if err != nil {
		return nil, err
	}
	timeSig, err := requireString(params, "time_signature")
	if err != nil {
		return nil, err
	}
	for _, field := range []string{"key", "description"} {
		if v, ok := params[field]; ok {
			if _, ok := v.(string); !ok {
				return nil, errs.New(errs.SchemaViolation, "field %q must be a string", field)
			}
		}
	}
	key := optionalString(params, "key", "")
	description := optionalString(params, "description", "")

	if err := d.store.AddSection(name, start, end, tempo, timeSig, key, description); err != nil {
		return nil, err
	}
	return okResult(), nil
}

// editSection identifies the target section with "name" and accepts a
// "rename" field to change it, alongside any of the other patchable
// fields. The catalog row `{name, …partial}` does not separately name the
// identifying vs. renaming field, so this dispatcher treats "name" as the
// lookup key and "rename" as the optional new name.
func (d *Dispatcher) editSection(params map[string]any) (any, error) {
	name, err := requireString(params, "name")
	if err != nil {
		return nil, err
	}

	patch := piece.SectionPatch{}
	if v, ok := params["rename"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, errs.New(errs.SchemaViolation, "field %q must be a string", "rename")
		}
		patch.Name = &s
	}
	if v, ok := params["start_measure"]; ok {
		n, err := coerceInt(v, "start_measure")
		if err != nil {
			return nil, err
		}
		patch.StartMeasure = &n
	}
	if v, ok := params["end_measure"]; ok {
		n, err := coerceInt(v, "end_measure")
		if err != nil {
			return nil, err
		}
		patch.EndMeasure = &n
	}
	if v, ok := params["tempo"]; ok {
		n, err := coerceInt(v, "tempo")
		if err != nil {
			return nil, err
		}
		patch.Tempo = &n
	}
	if v, ok := params["time_signature"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, errs.New(errs.SchemaViolation, "field %q must be a string", "time_signature")
		}
		patch.TimeSignature = &s
	}
	if v, ok := params["key"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, errs.New(errs.SchemaViolation, "field %q must be a string", "key")
		}
		patch.Key = &s
	}
	if v, ok := params["description"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, errs.New(errs.SchemaViolation, "field %q must be a string", "description")
		}
		patch.Description = &s
	}

	if err := d.store.EditSection(name, patch); err != nil {
		return nil, err
	}
	return okResult(), nil
}

func coerceInt(v any, field string) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, errs.New(errs.SchemaViolation, "field %q must be a number", field)
	}
}

func (d *Dispatcher) getSections(map[string]any) (any, error) {
	return sectionsView(d.store.GetSections()), nil
}

func (d *Dispatcher) addTrack(params map[string]any) (any, error) {
	name, err := requireString(params, "name")
	if err != nil {
		return nil, err
	}
	instrument, err := requireString(params, "instrument")
	if err != nil {
		return nil, err
	}
	if err := d.store.AddTrack(name, instrument); err != nil {
		return nil, err
	}
	return okResult(), nil
}

func (d *Dispatcher) removeTrack(params map[string]any) (any, error) {
	name, err := requireString(params, "name")
	if err != nil {
		return nil, err
	}
	removed, err := d.store.RemoveTrack(name)
	if err != nil {
		return nil, err
	}
	return map[string]any{"removed_notes_count": removed}, nil
}

func (d *Dispatcher) getTracks(map[string]any) (any, error) {
	return tracksView(d.store.GetTracks()), nil
}

func (d *Dispatcher) addNotes(params map[string]any) (any, error) {
	raw, err := requireObjectSlice(params, "notes")
	if err != nil {
		return nil, err
	}
	batch := make([]piece.NoteInput, len(raw))
	for i, obj := range raw {
		track, err := requireString(obj, "track")
		if err != nil {
			return nil, batchErr(err, i)
		}
		pitch, err := requireInt(obj, "pitch")
		if err != nil {
			return nil, batchErr(err, i)
		}
		start, ok := obj["start"]
		if !ok {
			return nil, batchErr(errs.New(errs.SchemaViolation, "missing required field %q", "start"), i)
		}
		duration, ok := obj["duration"]
		if !ok {
			return nil, batchErr(errs.New(errs.SchemaViolation, "missing required field %q", "duration"), i)
		}
		batch[i] = piece.NoteInput{Track: track, Pitch: pitch, Start: start, Duration: duration}
	}

	count, err := d.store.AddNotes(batch)
	if err != nil {
		return nil, err
	}
	return map[string]any{"added_count": count}, nil
}

func batchErr(err error, index int) error {
	e, ok := err.(*errs.Error)
	if !ok {
		return err
	}
	return errs.WithData(e.Kind, map[string]any{"index": index, "reason": e.Message}, "batch entry %d invalid: %s", index, e.Message)
}

func (d *Dispatcher) removeNotesInRange(params map[string]any) (any, error) {
	track, err := requireString(params, "track")
	if err != nil {
		return nil, err
	}
	start, err := requireBeat(params, "start_time")
	if err != nil {
		return nil, err
	}
	end, err := requireBeat(params, "end_time")
	if err != nil {
		return nil, err
	}
	removed := d.store.RemoveNotesInRange(track, start, end)
	return map[string]any{"removed_count": removed}, nil
}

func (d *Dispatcher) getNotes(params map[string]any) (any, error) {
	filter := piece.NoteFilter{}
	if v, ok := params["track"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, errs.New(errs.SchemaViolation, "field %q must be a string", "track")
		}
		filter.Track = &s
	}
	if start, present, err := optionalBeat(params, "start_time"); err != nil {
		return nil, err
	} else if present {
		filter.Start = start
	}
	if end, present, err := optionalBeat(params, "end_time"); err != nil {
		return nil, err
	} else if present {
		filter.End = end
	}
	return notesView(d.store.GetNotes(filter)), nil
}

func (d *Dispatcher) addChords(params map[string]any) (any, error) {
	raw, err := requireObjectSlice(params, "chords")
	if err != nil {
		return nil, err
	}
	batch := make([]piece.ChordInput, len(raw))
	for i, obj := range raw {
		chord, err := requireString(obj, "chord")
		if err != nil {
			return nil, batchErr(err, i)
		}
		beat, ok := obj["beat"]
		if !ok {
			return nil, batchErr(errs.New(errs.SchemaViolation, "missing required field %q", "beat"), i)
		}
		duration, ok := obj["duration"]
		if !ok {
			return nil, batchErr(errs.New(errs.SchemaViolation, "missing required field %q", "duration"), i)
		}
		batch[i] = piece.ChordInput{Beat: beat, Chord: chord, Duration: duration}
	}

	added, err := d.store.AddChords(batch)
	if err != nil {
		return nil, err
	}
	return map[string]any{"chords_added": chordsView(added)}, nil
}

func (d *Dispatcher) getChordsInRange(params map[string]any) (any, error) {
	start, err := requireBeat(params, "start_beat")
	if err != nil {
		return nil, err
	}
	end, err := requireBeat(params, "end_beat")
	if err != nil {
		return nil, err
	}
	return chordsView(d.store.GetChordsInRange(start, end)), nil
}

func (d *Dispatcher) removeChordsInRange(params map[string]any) (any, error) {
	start, err := requireBeat(params, "start_beat")
	if err != nil {
		return nil, err
	}
	end, err := requireBeat(params, "end_beat")
	if err != nil {
		return nil, err
	}
	d.store.RemoveChordsInRange(start, end)
	return okResult(), nil
}

func (d *Dispatcher) flagNotes(params map[string]any) (any, error) {
	tracks, err := requireStringSlice(params, "tracks")
	if err != nil {
		return nil, err
	}
	start, err := requireBeat(params, "start_beat")
	if err != nil {
		return nil, err
	}
	end, err := requireBeat(params, "end_beat")
	if err != nil {
		return nil, err
	}
	count, err := d.store.FlagNotes(tracks, start, end)
	if err != nil {
		return nil, err
	}
	return map[string]any{"flagged_count": count}, nil
}

func (d *Dispatcher) removeFlaggedNotes(map[string]any) (any, error) {
	removed := d.store.RemoveFlaggedNotes()
	return map[string]any{"removed": notesView(removed), "count": len(removed)}, nil
}

func (d *Dispatcher) exportMIDI(params map[string]any) (any, error) {
	path, err := requireString(params, "filepath")
	if err != nil {
		return nil, err
	}
	if d.exportDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(d.exportDir, path)
	}
	if err := midi.Export(d.store.Doc, path); err != nil {
		d.reporter.CaptureExportFailure(path, err)
		return nil, err
	}
	return map[string]any{"filepath": path}, nil
}
