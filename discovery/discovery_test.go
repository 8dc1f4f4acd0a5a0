package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetectProject_FindsGoModAboveStartPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/demo\n\ngo 1.23\n")
	writeFile(t, filepath.Join(root, "pkg", "thing.go"), "package pkg\n")

	proj, err := DetectProject(filepath.Join(root, "pkg", "thing.go"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo", proj.ImportPath)
	assert.Equal(t, root, proj.RootPath)
}

func TestDetectProject_NoGoModReturnsError(t *testing.T) {
	root := t.TempDir()
	_, err := DetectProject(root)
	assert.Error(t, err)
}

func TestProject_SourcesSkipsTestsVendorAndHiddenDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/demo\n\ngo 1.23\n")
	writeFile(t, filepath.Join(root, "pkg", "thing.go"), "package pkg\n")
	writeFile(t, filepath.Join(root, "pkg", "thing_test.go"), "package pkg\n")
	writeFile(t, filepath.Join(root, "vendor", "dep", "dep.go"), "package dep\n")
	writeFile(t, filepath.Join(root, ".git", "ignored.go"), "package ignored\n")

	proj, err := DetectProject(root)
	require.NoError(t, err)

	sources, err := proj.Sources(context.Background(), afs.New())
	require.NoError(t, err)

	require.Len(t, sources, 1)
	assert.Equal(t, "pkg/thing.go", sources[0].RelPath)
	assert.Equal(t, "example.com/demo/pkg", sources[0].ImportPath)
	assert.Equal(t, "example.com/demo/pkg/thing.go", sources[0].FileName())
}
