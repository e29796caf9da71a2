package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramFor_KnownAndUnknownInstruments(t *testing.T) {
	assert.Equal(t, 0, ProgramFor("piano"))
	assert.Equal(t, 0, ProgramFor("Acoustic Grand Piano"))
	assert.Equal(t, 40, ProgramFor("violin"))
	assert.Equal(t, 42, ProgramFor("cello"))
	assert.Equal(t, 56, ProgramFor("trumpet"))
	assert.Equal(t, 73, ProgramFor("flute"))
	assert.Equal(t, 32, ProgramFor("acoustic_bass"))
	assert.Equal(t, 0, ProgramFor("totally-unknown-synth"))
}

func TestIsPercussion_NormalizesTrackName(t *testing.T) {
	assert.True(t, IsPercussion("drums"))
	assert.True(t, IsPercussion("Drums"))
	assert.True(t, IsPercussion("percussion"))
	assert.True(t, IsPercussion(" Percussion "))
	assert.False(t, IsPercussion("piano"))
}
