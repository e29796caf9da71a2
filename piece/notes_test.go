package piece

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrisMu01/midi-gen-mcp/errs"
)

func TestAddNotes_AtomicOnBatchFailure(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddTrack("piano", "piano"))

	_, err := s.AddNotes([]NoteInput{
		{Track: "piano", Pitch: 60, Start: "0", Duration: "1"},
		{Track: "piano", Pitch: 200, Start: "1", Duration: "1"},
	})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.PitchOutOfRange))
	assert.Empty(t, s.Doc.Notes, "no notes should be added from a failed batch")

	e, ok := err.(*errs.Error)
	require.True(t, ok)
	assert.Equal(t, 1, e.Data["index"])
}

func TestAddNotes_RejectsMissingTrack(t *testing.T) {
	s := NewStore()
	_, err := s.AddNotes([]NoteInput{{Track: "bass", Pitch: 40, Start: "0", Duration: "1"}})
	assert.True(t, errs.Is(err, errs.TrackMissing))
}

func TestAddNotes_EvaluatesExpressions(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddTrack("piano", "piano"))

	count, err := s.AddNotes([]NoteInput{
		{Track: "piano", Pitch: 60, Start: "9 + 1/3", Duration: "1/2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 0, s.Doc.Notes[0].Start.Cmp(big.NewRat(28, 3)))
}

func TestRemoveNotesInRange_HalfOpenAndAllTracks(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddTrack("piano", "piano"))
	require.NoError(t, s.AddTrack("bass", "acoustic_bass"))
	_, err := s.AddNotes([]NoteInput{
		{Track: "piano", Pitch: 60, Start: "0", Duration: "1"},
		{Track: "piano", Pitch: 62, Start: "1", Duration: "1"},
		{Track: "bass", Pitch: 40, Start: "0", Duration: "1"},
	})
	require.NoError(t, err)

	removed := s.RemoveNotesInRange("piano", big.NewRat(0, 1), big.NewRat(1, 1))
	assert.Equal(t, 1, removed)
	assert.Len(t, s.Doc.Notes, 2)

	removed = s.RemoveNotesInRange(AllTracksSentinel, big.NewRat(0, 1), big.NewRat(10, 1))
	assert.Equal(t, 2, removed)
	assert.Empty(t, s.Doc.Notes)
}

func TestGetNotes_FiltersByTrackAndRange(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddTrack("piano", "piano"))
	_, err := s.AddNotes([]NoteInput{
		{Track: "piano", Pitch: 60, Start: "0", Duration: "1"},
		{Track: "piano", Pitch: 62, Start: "2", Duration: "1"},
	})
	require.NoError(t, err)

	track := "piano"
	start := big.NewRat(1, 1)
	notes := s.GetNotes(NoteFilter{Track: &track, Start: start})
	assert.Len(t, notes, 1)
	assert.Equal(t, 62, notes[0].Pitch)

	notes = s.GetNotes(NoteFilter{Track: &track})
	assert.Len(t, notes, 2)
}
