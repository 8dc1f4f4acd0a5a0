package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkTestSource = `package demo

func Helper() int {
	return 1
}

func Main() int {
	return Helper()
}
`

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/demo\n\ngo 1.23\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.go"), []byte(checkTestSource), 0o644))
	return dir
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheck_DefinedAssertionPasses(t *testing.T) {
	dir := writeProject(t)
	assertionsPath := filepath.Join(dir, "assertions.yaml")
	require.NoError(t, os.WriteFile(assertionsPath, []byte(`
assertions:
  - kind: defined
    file: demo.go
    line: 8
    column: 9
    targets:
      - file: demo.go
        line: 3
`), 0o644))

	out, err := runRoot(t, "check", dir, assertionsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestCheck_DefinedAssertionFailsOnWrongTarget(t *testing.T) {
	dir := writeProject(t)
	assertionsPath := filepath.Join(dir, "assertions.yaml")
	require.NoError(t, os.WriteFile(assertionsPath, []byte(`
assertions:
  - kind: defined
    file: demo.go
    line: 8
    column: 9
    targets:
      - file: demo.go
        line: 99
`), 0o644))

	_, err := runRoot(t, "check", dir, assertionsPath)
	assert.Error(t, err)
}

func TestCheck_DefinesAssertionPasses(t *testing.T) {
	dir := writeProject(t)
	assertionsPath := filepath.Join(dir, "assertions.yaml")
	require.NoError(t, os.WriteFile(assertionsPath, []byte(`
assertions:
  - kind: defines
    file: demo.go
    line: 3
    column: 6
    symbols: [Helper]
`), 0o644))

	out, err := runRoot(t, "check", dir, assertionsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestDump_PrintsYAMLSnapshot(t *testing.T) {
	dir := writeProject(t)
	out, err := runRoot(t, "dump", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "files:")
	assert.Contains(t, out, "nodes:")
}
