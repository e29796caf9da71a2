package piece

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrisMu01/midi-gen-mcp/errs"
)

func TestAddChords_RejectsUnknownSymbolAtomically(t *testing.T) {
	s := NewStore()
	_, err := s.AddChords([]ChordInput{
		{Beat: "0", Chord: "C", Duration: "4"},
		{Beat: "4", Chord: "Hmaj9", Duration: "4"},
	})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.UnknownChordSymbol))
	assert.Empty(t, s.Doc.Chords)
}

// Inserting a chord that overlaps an existing one trims the existing
// chord around the new one rather than rejecting or silently dropping it.
func TestAddChords_SplitOnInsert(t *testing.T) {
	s := NewStore()
	_, err := s.AddChords([]ChordInput{{Beat: "0", Chord: "C", Duration: "8"}})
	require.NoError(t, err)

	_, err = s.AddChords([]ChordInput{{Beat: "4", Chord: "G", Duration: "2"}})
	require.NoError(t, err)

	chords := s.GetChordsInRange(big.NewRat(0, 1), big.NewRat(100, 1))
	require.Len(t, chords, 3)

	assert.Equal(t, "C", chords[0].Symbol)
	assert.Equal(t, 0, chords[0].Beat.Cmp(big.NewRat(0, 1)))
	assert.Equal(t, 0, chords[0].Duration.Cmp(big.NewRat(4, 1)))

	assert.Equal(t, "G", chords[1].Symbol)
	assert.Equal(t, 0, chords[1].Beat.Cmp(big.NewRat(4, 1)))
	assert.Equal(t, 0, chords[1].Duration.Cmp(big.NewRat(2, 1)))

	assert.Equal(t, "C", chords[2].Symbol)
	assert.Equal(t, 0, chords[2].Beat.Cmp(big.NewRat(6, 1)))
	assert.Equal(t, 0, chords[2].Duration.Cmp(big.NewRat(2, 1)))
}

func TestAddChords_FullyOverwritesExisting(t *testing.T) {
	s := NewStore()
	_, err := s.AddChords([]ChordInput{{Beat: "2", Chord: "C", Duration: "2"}})
	require.NoError(t, err)

	_, err = s.AddChords([]ChordInput{{Beat: "0", Chord: "G", Duration: "8"}})
	require.NoError(t, err)

	chords := s.GetChordsInRange(big.NewRat(0, 1), big.NewRat(100, 1))
	require.Len(t, chords, 1)
	assert.Equal(t, "G", chords[0].Symbol)
}

func TestRemoveChordsInRange_ClearsFlags(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddTrack("piano", "piano"))
	_, err := s.AddNotes([]NoteInput{{Track: "piano", Pitch: 61, Start: "0", Duration: "1"}})
	require.NoError(t, err)
	_, err = s.AddChords([]ChordInput{{Beat: "0", Chord: "C", Duration: "4"}})
	require.NoError(t, err)

	_, err = s.FlagNotes([]string{"piano"}, big.NewRat(0, 1), big.NewRat(4, 1))
	require.NoError(t, err)
	require.True(t, s.Doc.Notes[0].Flagged)

	s.RemoveChordsInRange(big.NewRat(0, 1), big.NewRat(4, 1))
	assert.Empty(t, s.Doc.Chords)
	assert.False(t, s.Doc.Notes[0].Flagged)
}
