package grader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"structgrade/internal/crawler"
	"structgrade/internal/diff"
	"structgrade/internal/extractor"
	"structgrade/internal/structure"
)

// Status is a submission-level verdict.
type Status string

const (
	StatusPass  Status = "PASS"
	StatusFail  Status = "FAIL"
	StatusError Status = "ERROR"
)

// Result is the graded outcome for one submission. Doc holds the
// extracted class structures by class name when extraction succeeded.
type Result struct {
	ID       string
	Status   Status
	Comments []string
	Doc      structure.Value
}

// Summary counts results by verdict.
type Summary struct {
	Passed int
	Failed int
	Errors int
}

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusError:
			s.Errors++
		}
	}
	return s
}

// Grader extracts class structures from submissions and compares them
// against a reference corpus.
type Grader struct {
	crawler *crawler.Crawler
	ext     *extractor.Extractor
	differ  *diff.Differ
	workers int
}

func New(targets []string, workers int) (*Grader, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("no target files configured")
	}
	ext, err := extractor.NewExtractor("java")
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	return &Grader{
		crawler: crawler.NewCrawler(targets),
		ext:     ext,
		differ:  diff.NewClassDiffer(),
		workers: workers,
	}, nil
}

// BuildReferenceCorpus extracts every target file under the solution
// directory. Files that fail to extract are skipped with a warning; the
// build fails only when nothing usable remains.
func (g *Grader) BuildReferenceCorpus(refDir string) (*structure.Corpus, error) {
	hits, err := g.crawler.FindAll(refDir)
	if err != nil {
		return nil, err
	}

	docs := structure.Sequence()
	for _, hit := range hits {
		doc, err := g.ext.ExtractFromFile(hit.Path)
		if err != nil {
			slog.Warn("skipping solution file", "path", hit.Path, "err", err)
			continue
		}
		docs.Append(doc)
	}
	corpus := structure.NormalizeCorpus(docs)
	if corpus.Len() == 0 {
		return nil, fmt.Errorf("no valid solution files found in %s", refDir)
	}
	return corpus, nil
}

// LoadReferenceCorpus reads a precomputed structures JSON, either a
// sequence of class structures or a mapping keyed by class name.
func LoadReferenceCorpus(path string) (*structure.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read solution %s: %w", path, err)
	}
	doc, err := structure.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse solution %s: %w", path, err)
	}
	return structure.NormalizeCorpus(doc), nil
}

// GradeSubmission extracts one submission directory and compares it
// against ref. Parse failures in individual files are tolerated as long
// as at least one file extracts; any other extraction failure voids the
// submission.
func (g *Grader) GradeSubmission(id, dir string, ref *structure.Corpus) Result {
	hits, err := g.crawler.FindTargets(dir)
	if err != nil || len(hits) == 0 {
		return Result{ID: id, Status: StatusError, Comments: []string{"Failed to generate UML data"}}
	}

	doc := structure.NewMapping()
	parseErrors := 0
	for _, hit := range hits {
		classDoc, err := g.ext.ExtractFromFile(hit.Path)
		if errors.Is(err, extractor.ErrParse) {
			slog.Warn("parse error in submission file", "id", id, "path", hit.Path)
			parseErrors++
			continue
		}
		if err != nil {
			slog.Warn("failed to process submission file", "id", id, "path", hit.Path, "err", err)
			return Result{ID: id, Status: StatusError, Comments: []string{"Failed to generate UML data"}}
		}
		name := classDoc.StringAt("name")
		if name == "" {
			name = "Unknown"
		}
		doc.Set(name, classDoc)
	}

	if doc.Len() == 0 {
		if parseErrors > 0 {
			return Result{ID: id, Status: StatusError, Comments: []string{"Parse error - likely syntax error in code"}}
		}
		return Result{ID: id, Status: StatusError, Comments: []string{"Failed to generate UML data"}}
	}

	discrepancies := g.differ.CompareCorpora(ref, structure.NormalizeCorpus(doc))
	status := StatusPass
	if len(discrepancies) > 0 {
		status = StatusFail
	}
	return Result{ID: id, Status: status, Comments: discrepancies, Doc: doc}
}

// Grade runs GradeSubmission over every immediate subdirectory of
// submissionsDir, bounded by the configured worker count, and returns
// the results sorted by submission ID.
func (g *Grader) Grade(submissionsDir string, ref *structure.Corpus) ([]Result, error) {
	dirs, err := crawler.Submissions(submissionsDir)
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no submissions found in %s", submissionsDir)
	}

	results := make([]Result, len(dirs))
	p := pool.New().WithMaxGoroutines(g.workers)
	for i, dir := range dirs {
		i, dir := i, dir
		p.Go(func() {
			results[i] = g.GradeSubmission(SubmissionID(submissionsDir, dir), dir, ref)
		})
	}
	p.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

// SubmissionID derives a stable student identifier from the submission
// directory path.
func SubmissionID(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return filepath.Base(dir)
	}
	return strings.ReplaceAll(rel, string(filepath.Separator), "_")
}
