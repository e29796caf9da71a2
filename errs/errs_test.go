package errs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MessageFormatting(t *testing.T) {
	err := New(NotFound, "track %q does not exist", "bass")
	assert.Equal(t, `NotFound: track "bass" does not exist`, err.Error())
}

func TestError_EmptyMessageFallsBackToKind(t *testing.T) {
	err := &Error{Kind: IOError}
	assert.Equal(t, "IOError", err.Error())
}

func TestIs_MatchesOnlySameKind(t *testing.T) {
	err := New(DuplicateName, "already exists")
	assert.True(t, Is(err, DuplicateName))
	assert.False(t, Is(err, NotFound))
	assert.False(t, Is(assert.AnError, DuplicateName))
}

func TestWithData_CarriesStructuredContext(t *testing.T) {
	err := WithData(PitchOutOfRange, map[string]any{"index": 2}, "pitch out of range")
	assert.Equal(t, 2, err.Data["index"])
}
