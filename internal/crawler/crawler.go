package crawler

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Hit is one located target file.
type Hit struct {
	Name string // target basename
	Path string // full path under the scanned root
}

// Crawler scans directory trees for the assignment's target source files.
type Crawler struct {
	match map[string]bool
}

// NewCrawler creates a crawler looking for the given target basenames.
func NewCrawler(targets []string) *Crawler {
	match := make(map[string]bool, len(targets))
	for _, t := range targets {
		match[t] = true
	}
	return &Crawler{match: match}
}

func (c *Crawler) walk(root string, visit func(name, path string)) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "__MACOSX") {
				return filepath.SkipDir
			}
			return nil
		}
		if c.match[d.Name()] {
			visit(d.Name(), path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return nil
}

// FindTargets walks root and returns one hit per target basename found,
// ordered by first discovery. When a basename appears more than once the
// path seen last wins.
func (c *Crawler) FindTargets(root string) ([]Hit, error) {
	var hits []Hit
	index := map[string]int{}

	err := c.walk(root, func(name, path string) {
		if i, seen := index[name]; seen {
			hits[i].Path = path
			return
		}
		index[name] = len(hits)
		hits = append(hits, Hit{Name: name, Path: path})
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// FindAll walks root and returns every matching file in walk order,
// duplicates included.
func (c *Crawler) FindAll(root string) ([]Hit, error) {
	var hits []Hit
	err := c.walk(root, func(name, path string) {
		hits = append(hits, Hit{Name: name, Path: path})
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// LoadTargets reads a target list file, one basename per line. Blank lines
// and surrounding whitespace are ignored.
func LoadTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read target list %s: %w", path, err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			targets = append(targets, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list %s: %w", path, err)
	}
	return targets, nil
}

// Submissions lists the immediate subdirectories of root, one per graded
// submission, in name order.
func Submissions(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions in %s: %w", root, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	return dirs, nil
}
