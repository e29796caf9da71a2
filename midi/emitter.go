// Package midi synthesizes a Standard MIDI File from a piece document,
// grounded on this corpus's own gitlab.com/gomidi/midi/v2 + smf usage
// rather than a hand-rolled byte-level SMF encoder.
package midi

import (
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/IrisMu01/midi-gen-mcp/errs"
	"github.com/IrisMu01/midi-gen-mcp/piece"
	"github.com/IrisMu01/midi-gen-mcp/theory"
)

// TicksPerBeat is the SMF resolution every export uses.
const TicksPerBeat = 480

const defaultTempo = 120
const defaultNumerator = 4
const defaultDenominator = 4
const defaultVelocity = 64

// nonPercussionChannels lists the channels available to melodic/harmonic
// tracks in round-robin order; channel 9 is reserved for percussion.
var nonPercussionChannels = []uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 11, 12, 13, 14, 15}

// Export writes doc as a Standard MIDI File to path (a ".mid" extension is
// appended if missing). Track 0 carries tempo and time signature meta
// events derived from the section timeline; each declared track becomes
// its own SMF track with a leading Program Change and note on/off events
// for every note assigned to it.
func Export(doc *piece.Document, path string) error {
	path = withMidExtension(path)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerBeat)
	s.Add(buildTempoTrack(doc.Sections))

	channel := assignChannels(doc.Tracks)
	for _, t := range doc.Tracks {
		s.Add(buildInstrumentTrack(t, channel[t.Name], doc.Notes))
	}

	f, err := os.Create(path)
	if err != nil {
		return errs.New(errs.IOError, "creating %q: %v", path, err)
	}
	defer f.Close()

	if _, err := s.WriteTo(f); err != nil {
		return errs.New(errs.IOError, "writing %q: %v", path, err)
	}
	return nil
}

func withMidExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".mid") {
		return path
	}
	return path + ".mid"
}

func assignChannels(tracks []*piece.Track) map[string]uint8 {
	out := make(map[string]uint8, len(tracks))
	next := 0
	for _, t := range tracks {
		if IsPercussion(t.Name) {
			out[t.Name] = PercussionChannel
			continue
		}
		out[t.Name] = nonPercussionChannels[next%len(nonPercussionChannels)]
		next++
	}
	return out
}

type tempoMeterPoint struct {
	tick        int64
	tempo       int
	numerator   int
	denominator int
}

// buildTempoTrack derives one tempo/meter event per section, placed at the
// section's cumulative beat offset (sections are concatenated in order;
// their own start/end measure numbers only determine measure count and
// ordering, not absolute position). A piece with no sections gets a
// single 120 BPM, 4/4 event at tick 0.
func buildTempoTrack(sections []*piece.Section) smf.Track {
	var track smf.Track

	points := tempoPoints(sections)
	var prevTick int64
	for _, p := range points {
		delta := uint32(p.tick - prevTick)
		track.Add(delta, smf.MetaTempo(float64(p.tempo)))
		track.Add(0, smf.MetaMeter(uint8(p.numerator), uint8(p.denominator)))
		prevTick = p.tick
	}
	track.Close(0)
	return track
}

func tempoPoints(sections []*piece.Section) []tempoMeterPoint {
	if len(sections) == 0 {
		return []tempoMeterPoint{{tick: 0, tempo: defaultTempo, numerator: defaultNumerator, denominator: defaultDenominator}}
	}

	points := make([]tempoMeterPoint, 0, len(sections))
	offset := new(big.Rat)
	for _, sec := range sections {
		num, den, err := piece.ValidateTimeSignature(sec.TimeSignature)
		if err != nil {
			num, den = defaultNumerator, defaultDenominator
		}
		tick := theory.RoundTicks(offset, TicksPerBeat)
		points = append(points, tempoMeterPoint{tick: tick, tempo: sec.Tempo, numerator: num, denominator: den})

		beatsPerMeasure := big.NewRat(int64(num*4), int64(den))
		measures := big.NewRat(int64(sec.EndMeasure-sec.StartMeasure+1), 1)
		offset = new(big.Rat).Add(offset, new(big.Rat).Mul(beatsPerMeasure, measures))
	}
	return points
}

type noteEvent struct {
	tick   int64
	isOff  bool
	pitch  uint8
	volume uint8
}

// buildInstrumentTrack emits a Program Change followed by every note
// belonging to track, ordered so that note-off events at a shared tick
// precede note-on events (avoiding a false double-sounding note).
func buildInstrumentTrack(t *piece.Track, channel uint8, notes []*piece.Note) smf.Track {
	var track smf.Track
	track.Add(0, midi.ProgramChange(channel, uint8(ProgramFor(t.Instrument))))

	var events []noteEvent
	for _, n := range notes {
		if n.Track != t.Name {
			continue
		}
		start := theory.RoundTicks(n.Start, TicksPerBeat)
		end := theory.RoundTicks(new(big.Rat).Add(n.Start, n.Duration), TicksPerBeat)
		events = append(events, noteEvent{tick: start, pitch: uint8(n.Pitch), volume: defaultVelocity})
		events = append(events, noteEvent{tick: end, isOff: true, pitch: uint8(n.Pitch)})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].isOff && !events[j].isOff
	})

	var prevTick int64
	for _, e := range events {
		delta := uint32(e.tick - prevTick)
		if e.isOff {
			track.Add(delta, midi.NoteOff(channel, e.pitch))
		} else {
			track.Add(delta, midi.NoteOn(channel, e.pitch, e.volume))
		}
		prevTick = e.tick
	}

	track.Close(0)
	return track
}
