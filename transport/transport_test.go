package transport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrisMu01/midi-gen-mcp/dispatch"
	"github.com/IrisMu01/midi-gen-mcp/piece"
)

func TestServe_DispatchesRequestsAndWritesResponses(t *testing.T) {
	h := dispatch.New(piece.NewStore())
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"set_title","params":{"title":"Song"}}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"get_piece_info","params":{}}` + "\n")
	var out bytes.Buffer

	err := Serve(in, &out, h)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"result"`)
	assert.Contains(t, lines[1], `"Song"`)
}

func TestServe_UnknownToolReturnsErrorEnvelopeNotFatal(t *testing.T) {
	h := dispatch.New(piece.NewStore())
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"nope","params":{}}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"get_tracks","params":{}}` + "\n")
	var out bytes.Buffer

	err := Serve(in, &out, h)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "UnknownTool")
	assert.Contains(t, lines[1], `"result"`)
}

func TestServe_MalformedJSONIsFatal(t *testing.T) {
	h := dispatch.New(piece.NewStore())
	in := strings.NewReader(`not json at all` + "\n")
	var out bytes.Buffer

	err := Serve(in, &out, h)
	assert.Error(t, err)
}

func TestServe_EOFIsCleanShutdown(t *testing.T) {
	h := dispatch.New(piece.NewStore())
	in := strings.NewReader("")
	var out bytes.Buffer

	err := Serve(in, &out, h)
	assert.NoError(t, err)
	assert.Empty(t, out.String())
}
