package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile creates path (and its parents) under root with the given content.
func WriteFile(t *testing.T, root, path, content string) string {
	t.Helper()

	full := filepath.Join(root, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	return full
}

// MakeDir creates a directory under root.
func MakeDir(t *testing.T, root, path string) string {
	t.Helper()

	full := filepath.Join(root, path)
	require.NoError(t, os.MkdirAll(full, 0755))
	return full
}

// YearTree writes a data root where every key is a year label and every value
// maps file names to CSV content. It returns the root directory.
func YearTree(t *testing.T, years map[string]map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for year, files := range years {
		MakeDir(t, root, year)
		for name, content := range files {
			WriteFile(t, root, filepath.Join(year, name), content)
		}
	}
	return root
}

// ReadFile returns the content of path as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
