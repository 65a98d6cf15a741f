package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"structgrade/internal/grader"
	"structgrade/internal/structure"
)

const (
	ScoreFile    = "uml-score.csv"
	CommentsFile = "uml-comments.csv"
)

// Write renders all grading artifacts into outDir: the score and comments
// CSVs plus one structures JSON per submission that produced data.
func Write(outDir string, results []grader.Result) error {
	jsonDir := filepath.Join(outDir, "json")
	if err := os.MkdirAll(jsonDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	if err := writeScores(filepath.Join(outDir, ScoreFile), results); err != nil {
		return err
	}
	if err := writeComments(filepath.Join(outDir, CommentsFile), results); err != nil {
		return err
	}
	return writeDocs(jsonDir, results)
}

func writeScores(path string, results []grader.Result) error {
	rows := [][]string{{"ID", "Status"}}
	for _, r := range results {
		rows = append(rows, []string{r.ID, string(r.Status)})
	}
	return writeCSV(path, rows)
}

func writeComments(path string, results []grader.Result) error {
	rows := [][]string{{"ID", "Status", "Comments"}}
	for _, r := range results {
		rows = append(rows, []string{r.ID, string(r.Status), strings.Join(r.Comments, "\n")})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeDocs(jsonDir string, results []grader.Result) error {
	for _, r := range results {
		if r.Doc.Len() == 0 {
			continue
		}
		b, err := structure.DumpIndent(r.Doc)
		if err != nil {
			return fmt.Errorf("failed to encode structures for %s: %w", r.ID, err)
		}
		path := filepath.Join(jsonDir, r.ID+".json")
		if err := os.WriteFile(path, b, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
