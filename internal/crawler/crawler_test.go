package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("class X {}\n"), 0o644))
}

func TestFindTargets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "Stack.java"))
	writeFile(t, filepath.Join(root, "src", "util", "Queue.java"))
	writeFile(t, filepath.Join(root, "src", "README.md"))

	c := NewCrawler([]string{"Stack.java", "Queue.java", "Deque.java"})
	hits, err := c.FindTargets(root)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "Stack.java", hits[0].Name)
	assert.Equal(t, filepath.Join(root, "src", "Stack.java"), hits[0].Path)
	assert.Equal(t, "Queue.java", hits[1].Name)
}

func TestFindTargetsLastPathWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "Stack.java"))
	writeFile(t, filepath.Join(root, "b", "Stack.java"))

	c := NewCrawler([]string{"Stack.java"})
	hits, err := c.FindTargets(root)
	require.NoError(t, err)

	require.Len(t, hits, 1)
	assert.Equal(t, filepath.Join(root, "b", "Stack.java"), hits[0].Path)
}

func TestFindTargetsSkipsIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "Stack.java"))
	writeFile(t, filepath.Join(root, "__MACOSX", "Stack.java"))

	c := NewCrawler([]string{"Stack.java"})
	hits, err := c.FindTargets(root)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFindAllKeepsDuplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "Stack.java"))
	writeFile(t, filepath.Join(root, "b", "Stack.java"))
	writeFile(t, filepath.Join(root, "b", "Queue.java"))

	c := NewCrawler([]string{"Stack.java", "Queue.java"})
	hits, err := c.FindAll(root)
	require.NoError(t, err)

	require.Len(t, hits, 3)
	assert.Equal(t, filepath.Join(root, "a", "Stack.java"), hits[0].Path)
	assert.Equal(t, filepath.Join(root, "b", "Queue.java"), hits[1].Path)
	assert.Equal(t, filepath.Join(root, "b", "Stack.java"), hits[2].Path)
}

func TestLoadTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files.txt")
	require.NoError(t, os.WriteFile(path, []byte("Stack.java\n\n  Queue.java  \n"), 0o644))

	targets, err := LoadTargets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Stack.java", "Queue.java"}, targets)
}

func TestSubmissions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bob"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "alice"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	dirs, err := Submissions(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "alice"),
		filepath.Join(root, "bob"),
	}, dirs)
}
