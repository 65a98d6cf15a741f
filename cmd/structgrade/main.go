package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"structgrade/internal/config"
	"structgrade/internal/crawler"
	"structgrade/internal/diff"
	"structgrade/internal/extractor"
	"structgrade/internal/feedback"
	"structgrade/internal/grader"
	"structgrade/internal/logging"
	"structgrade/internal/report"
	"structgrade/internal/storage"
	"structgrade/internal/structure"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "structgrade",
		Short: "Structural grader for object-oriented programming assignments",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbose)
		},
	}
	dbPath  string
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "structgrade.db", "Path to the local run database (SQLite)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	extractCmd.Flags().StringVarP(&extractOut, "output", "o", "structures.json", "Output JSON file")
	extractCmd.Flags().StringVar(&extractTargets, "targets", "", "Target list file (default from config)")
	extractCmd.Flags().BoolVar(&extractPrune, "prune", false, "Drop false flags and empty collections from the output")

	gradeCmd.Flags().StringVar(&gradeRefDir, "ref", "", "Reference solution directory")
	gradeCmd.Flags().StringVar(&gradeSolution, "solution", "", "Precomputed solution structures JSON")
	gradeCmd.Flags().StringVar(&gradeOut, "out", "", "Report output directory (default from config)")
	gradeCmd.Flags().StringVar(&gradeTargets, "targets", "", "Target list file (default from config)")
	gradeCmd.Flags().IntVar(&gradeWorkers, "workers", 0, "Concurrent submission workers (default from config)")
	gradeCmd.Flags().BoolVar(&gradeFeedback, "feedback", false, "Generate AI feedback for failed submissions")

	runsCmd.Flags().IntVar(&runsLimit, "limit", 10, "Maximum number of runs to list")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(runsCmd)
}

// loadConfig reads config.yaml, falling back to defaults when absent.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func loadTargets(path string) []string {
	targets, err := crawler.LoadTargets(path)
	if err != nil {
		log.Fatalf("Failed to load target list: %v", err)
	}
	if len(targets) == 0 {
		log.Fatalf("Target list %s is empty", path)
	}
	return targets
}

var (
	extractOut     string
	extractTargets string
	extractPrune   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <dir>",
	Short: "Extract class structures from every target file under a directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := args[0]
		cfg := loadConfig()
		if extractTargets == "" {
			extractTargets = cfg.Project.Targets
		}
		targets := loadTargets(extractTargets)

		ext, err := extractor.NewExtractor("java")
		if err != nil {
			log.Fatalf("Failed to create extractor: %v", err)
		}
		cr := crawler.NewCrawler(targets)

		fmt.Printf("📂 Scanning %s for %d target files...\n", dir, len(targets))
		start := time.Now()
		hits, err := cr.FindAll(dir)
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}

		docs := structure.Sequence()
		for _, hit := range hits {
			doc, err := ext.ExtractFromFile(hit.Path)
			if err != nil {
				log.Printf("⚠️  Skipping %s: %v", hit.Path, err)
				continue
			}
			if extractPrune {
				doc = extractor.Prune(doc)
			}
			docs.Append(doc)
		}
		if docs.Len() == 0 {
			log.Fatalf("No valid target files found in %s", dir)
		}
		fmt.Printf("✅ Extracted %d class structures in %v.\n", docs.Len(), time.Since(start))

		b, err := structure.DumpIndent(docs)
		if err != nil {
			log.Fatalf("Failed to encode structures: %v", err)
		}
		if err := os.WriteFile(extractOut, b, 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", extractOut, err)
		}
		fmt.Printf("💾 Saved to %s\n", extractOut)
	},
}

var (
	gradeRefDir   string
	gradeSolution string
	gradeOut      string
	gradeTargets  string
	gradeWorkers  int
	gradeFeedback bool
)

var gradeCmd = &cobra.Command{
	Use:   "grade <submissions-dir>",
	Short: "Grade every submission directory against the reference solution",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		submissionsDir := args[0]
		cfg := loadConfig()
		if gradeTargets == "" {
			gradeTargets = cfg.Project.Targets
		}
		if gradeOut == "" {
			gradeOut = cfg.Grading.Output
		}
		if gradeWorkers == 0 {
			gradeWorkers = cfg.Project.Workers
		}
		if (gradeRefDir == "") == (gradeSolution == "") {
			log.Fatalf("Provide exactly one of --ref or --solution")
		}

		targets := loadTargets(gradeTargets)
		g, err := grader.New(targets, gradeWorkers)
		if err != nil {
			log.Fatalf("Failed to create grader: %v", err)
		}

		var ref *structure.Corpus
		reference := gradeSolution
		if gradeRefDir != "" {
			reference = gradeRefDir
			fmt.Printf("📂 Building reference corpus from %s...\n", gradeRefDir)
			ref, err = g.BuildReferenceCorpus(gradeRefDir)
		} else {
			fmt.Printf("📂 Loading reference corpus from %s...\n", gradeSolution)
			ref, err = grader.LoadReferenceCorpus(gradeSolution)
		}
		if err != nil {
			log.Fatalf("Failed to prepare reference: %v", err)
		}
		fmt.Printf("✅ Reference holds %d classes.\n", ref.Len())

		fmt.Printf("🚀 Grading submissions in %s with %d workers...\n", submissionsDir, gradeWorkers)
		start := time.Now()
		results, err := g.Grade(submissionsDir, ref)
		if err != nil {
			log.Fatalf("Grading failed: %v", err)
		}
		fmt.Printf("✅ Graded %d submissions in %v.\n", len(results), time.Since(start))

		if err := report.Write(gradeOut, results); err != nil {
			log.Fatalf("Failed to write reports: %v", err)
		}
		fmt.Printf("💾 Reports written to %s\n", gradeOut)

		ctx := context.Background()
		sum := grader.Summarize(results)

		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()
		run := storage.NewRun(reference, sum)
		if err := store.SaveRun(ctx, run, results); err != nil {
			log.Fatalf("Failed to save run: %v", err)
		}

		if gradeFeedback {
			writeFeedback(ctx, cfg, gradeOut, results)
		}

		fmt.Printf("🎉 Grading complete! Run %s recorded.\n", run.ID)
		fmt.Printf("Results: %d PASS, %d FAIL, %d ERROR\n", sum.Passed, sum.Failed, sum.Errors)
	},
}

func writeFeedback(ctx context.Context, cfg *config.Config, outDir string, results []grader.Result) {
	if cfg.AI.APIKey == "" {
		fmt.Println("⚠️  Skipping feedback: AI API key not configured")
		return
	}
	commenter, err := feedback.NewCommenter(ctx, feedback.Options{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
	})
	if err != nil {
		fmt.Printf("⚠️  Skipping feedback: %v\n", err)
		return
	}

	fbDir := filepath.Join(outDir, "feedback")
	if err := os.MkdirAll(fbDir, 0755); err != nil {
		log.Printf("⚠️  Failed to create feedback directory: %v", err)
		return
	}

	written := 0
	for _, r := range results {
		if r.Status != grader.StatusFail {
			continue
		}
		note, err := commenter.Comment(ctx, r.ID, r.Comments)
		if err != nil {
			slog.Warn("failed to generate feedback", "id", r.ID, "err", err)
			continue
		}
		path := filepath.Join(fbDir, r.ID+".txt")
		if err := os.WriteFile(path, []byte(note), 0644); err != nil {
			slog.Warn("failed to write feedback", "path", path, "err", err)
			continue
		}
		written++
	}
	fmt.Printf("✍️  Feedback written for %d submissions to %s\n", written, fbDir)
}

var compareCmd = &cobra.Command{
	Use:   "compare <reference.json> <candidate.json>",
	Short: "Compare two structure documents and print the discrepancies",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ref := loadCorpus(args[0])
		cand := loadCorpus(args[1])

		d := diff.NewClassDiffer()
		discrepancies := d.CompareCorpora(ref, cand)
		for _, line := range discrepancies {
			fmt.Println(line)
		}
		if len(discrepancies) == 0 {
			fmt.Println("PASS")
		} else {
			fmt.Println("FAIL")
		}
	},
}

func loadCorpus(path string) *structure.Corpus {
	corpus, err := grader.LoadReferenceCorpus(path)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", path, err)
	}
	return corpus
}

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent grading runs",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(context.Background(), runsLimit)
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  %s\n    %d PASS, %d FAIL, %d ERROR\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.ID, r.Reference,
				r.Passed, r.Failed, r.Errors)
		}
	},
}
