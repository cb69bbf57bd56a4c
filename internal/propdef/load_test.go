package propdef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lattice/internal/ir"
)

func writeDefs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadDir_SingleFile(t *testing.T) {
	dir := writeDefs(t, map[string]string{
		"props.cue": `
property: p: clauses: [{value: "input + 1"}]
property: q: clauses: [{value: "props.p * 2"}]
`,
	})

	decls, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, ir.Name("p"), decls[0].Name)
	assert.Equal(t, ir.Name("q"), decls[1].Name)
	assert.Equal(t, []ir.Name{"p"}, decls[1].Requires)
}

func TestLoadDir_MultipleFilesUnify(t *testing.T) {
	dir := writeDefs(t, map[string]string{
		"base.cue":    `property: p: clauses: [{value: "input"}]`,
		"derived.cue": `property: q: clauses: [{value: "props.p + 1"}]`,
	})

	decls, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, decls, 2)
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)

	var derr *DefError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Message, "not found")
}

func TestLoadDir_NotADirectory(t *testing.T) {
	dir := writeDefs(t, map[string]string{"props.cue": `property: p: clauses: [{value: "input"}]`})

	_, err := LoadDir(filepath.Join(dir, "props.cue"))
	require.Error(t, err)

	var derr *DefError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Message, "not a directory")
}

func TestLoadDir_NoCUEFiles(t *testing.T) {
	dir := writeDefs(t, map[string]string{"readme.txt": "nothing here"})

	_, err := LoadDir(dir)
	require.Error(t, err)

	var derr *DefError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Message, "no CUE files")
}

func TestLoadDir_SyntaxErrorCarriesPosition(t *testing.T) {
	dir := writeDefs(t, map[string]string{
		"broken.cue": `property: p: clauses: [{value: }]`,
	})

	_, err := LoadDir(dir)
	require.Error(t, err)
}
