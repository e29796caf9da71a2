package piece

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_CloneIsIndependent(t *testing.T) {
	d := NewDocument()
	d.Tracks = append(d.Tracks, &Track{Name: "piano", Instrument: "piano"})
	d.Notes = append(d.Notes, &Note{Track: "piano", Pitch: 60, Start: big.NewRat(0, 1), Duration: big.NewRat(1, 1)})
	d.Sections = append(d.Sections, &Section{Name: "A", StartMeasure: 1, EndMeasure: 4, Tempo: 120, TimeSignature: "4/4"})
	d.Chords = append(d.Chords, &ChordEntry{Beat: big.NewRat(0, 1), Symbol: "C", Duration: big.NewRat(4, 1), Tones: []string{"C", "E", "G"}, ToneClasses: []int{0, 4, 7}})

	clone := d.Clone()

	clone.Title = "changed"
	clone.Tracks[0].Name = "changed"
	clone.Notes[0].Pitch = 72
	clone.Notes[0].Start.Add(clone.Notes[0].Start, big.NewRat(1, 1))
	clone.Sections[0].EndMeasure = 99
	clone.Chords[0].Symbol = "G"
	clone.Chords[0].Tones[0] = "X"

	require.Equal(t, "Untitled", d.Title)
	assert.Equal(t, "piano", d.Tracks[0].Name)
	assert.Equal(t, 60, d.Notes[0].Pitch)
	assert.Equal(t, 0, d.Notes[0].Start.Cmp(big.NewRat(0, 1)))
	assert.Equal(t, 4, d.Sections[0].EndMeasure)
	assert.Equal(t, "C", d.Chords[0].Symbol)
	assert.Equal(t, "C", d.Chords[0].Tones[0])
}

func TestTrackByName_and_SectionByName_MissingReturnsNil(t *testing.T) {
	d := NewDocument()
	assert.Nil(t, d.TrackByName("missing"))
	assert.Nil(t, d.SectionByName("missing"))
}
