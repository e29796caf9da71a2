package piece

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrisMu01/midi-gen-mcp/errs"
)

func TestAddTrack_RejectsEmptyNameAndDuplicates(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddTrack("piano", "piano"))

	err := s.AddTrack("", "piano")
	assert.True(t, errs.Is(err, errs.SchemaViolation))

	err = s.AddTrack("piano", "organ")
	assert.True(t, errs.Is(err, errs.DuplicateName))
}

func TestRemoveTrack_CascadesNotes(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddTrack("piano", "piano"))
	_, err := s.AddNotes([]NoteInput{
		{Track: "piano", Pitch: 60, Start: "0", Duration: "1"},
		{Track: "piano", Pitch: 62, Start: "1", Duration: "1"},
	})
	require.NoError(t, err)

	removed, err := s.RemoveTrack("piano")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Empty(t, s.Doc.Notes)
	assert.Nil(t, s.Doc.TrackByName("piano"))

	_, err = s.RemoveTrack("piano")
	assert.True(t, errs.Is(err, errs.NotFound))
}
