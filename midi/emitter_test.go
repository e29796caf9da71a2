package midi

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrisMu01/midi-gen-mcp/piece"
)

func TestExport_WritesFileWithMidExtension(t *testing.T) {
	doc := piece.NewDocument()
	doc.Tracks = append(doc.Tracks, &piece.Track{Name: "piano", Instrument: "piano"})
	doc.Notes = append(doc.Notes, &piece.Note{
		Track: "piano", Pitch: 60,
		Start: big.NewRat(0, 1), Duration: big.NewRat(1, 1),
	})
	doc.Sections = append(doc.Sections, &piece.Section{
		Name: "A", StartMeasure: 1, EndMeasure: 4, Tempo: 120, TimeSignature: "4/4",
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "out")

	err := Export(doc, path)
	require.NoError(t, err)

	info, err := os.Stat(path + ".mid")
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExport_DeterministicAcrossRuns(t *testing.T) {
	doc := piece.NewDocument()
	doc.Tracks = append(doc.Tracks, &piece.Track{Name: "drums", Instrument: "drums"})
	doc.Notes = append(doc.Notes, &piece.Note{
		Track: "drums", Pitch: 36,
		Start: big.NewRat(0, 1), Duration: big.NewRat(1, 4),
	})

	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.mid")
	pathB := filepath.Join(dir, "b.mid")

	require.NoError(t, Export(doc, pathA))
	require.NoError(t, Export(doc, pathB))

	bytesA, err := os.ReadFile(pathA)
	require.NoError(t, err)
	bytesB, err := os.ReadFile(pathB)
	require.NoError(t, err)
	assert.Equal(t, bytesA, bytesB)
}

