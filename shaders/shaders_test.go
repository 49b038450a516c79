package shaders

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgram(t *testing.T) {
	for _, name := range []string{"noise", "texture", "lines"} {
		vert, frag, err := Program(name)
		require.NoError(t, err, name)
		assert.Contains(t, vert, "{{.Uniforms}}")
		assert.Contains(t, frag, "{{.Uniforms}}")
		assert.Contains(t, vert, "uProjectionMatrix")
	}

	_, _, err := Program("missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_FallsBackToEmbedded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lines.frag"), []byte("edited"), 0o644))

	vert, frag, err := Load(dir, "lines")
	require.NoError(t, err)
	assert.Equal(t, "edited", frag)

	embedded, _, err := Program("lines")
	require.NoError(t, err)
	assert.Equal(t, embedded, vert)
}

func TestProgramName(t *testing.T) {
	assert.Equal(t, "lines", ProgramName("/tmp/x/lines.frag"))
	assert.Equal(t, "noise", ProgramName("noise.vert"))
	assert.Equal(t, "", ProgramName("notes.txt"))
}
