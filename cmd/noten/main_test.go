package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noten/internal/document"
)

const sampleDoc = `{
  "nodes": [
    {"id": "1", "type": "sticky", "position": {"x": 0, "y": 0}, "data": {"label": "first"}},
    {"id": "2", "type": "sticky", "position": {"x": 300, "y": 0}, "data": {"label": "second", "color": "#BBDEFB"}}
  ],
  "edges": [
    {"id": "e1", "source": "1", "target": "2", "sourceHandle": "s-right", "targetHandle": "t-left"},
    {"id": "e2", "source": "1", "target": "9"}
  ]
}`

// run executes the command line with HOME and the log file pointed at a
// temp dir so no user config is read.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	args = append(args, "--log-file", filepath.Join(dir, "noten.log"))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "noten N/A"), out)
}

func TestCheck(t *testing.T) {
	path := writeDoc(t, sampleDoc)

	out, err := run(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 notes, 1 edges")
	assert.Contains(t, out, "dropped edge e2 1 -> 9: "+string(document.DropDangling))

	_, err = run(t, "check", "--strict", path)
	assert.ErrorIs(t, err, ErrDroppedEdges)
}

func TestCheck_Malformed(t *testing.T) {
	path := writeDoc(t, `{"nodes": {}}`)
	_, err := run(t, "check", path)
	assert.ErrorIs(t, err, document.ErrMalformedDocument)

	_, err = run(t, "check", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExport(t *testing.T) {
	path := writeDoc(t, sampleDoc)

	out, err := run(t, "export", "text", path)
	require.NoError(t, err)
	txt := strings.TrimSuffix(path, ".json") + ".txt"
	assert.Contains(t, out, "exported "+txt)
	data, err := os.ReadFile(txt)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")

	png := filepath.Join(t.TempDir(), "out.png")
	_, err = run(t, "export", "png", path, "-o", png)
	require.NoError(t, err)
	data, err = os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestExport_UnknownFormat(t *testing.T) {
	path := writeDoc(t, sampleDoc)
	_, err := run(t, "export", "svg", path)
	assert.ErrorContains(t, err, "unknown export format")
}
