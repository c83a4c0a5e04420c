package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/adnanhb/flowrag/internal/db"
	"github.com/adnanhb/flowrag/internal/documents"
	"github.com/adnanhb/flowrag/internal/progress"
	"github.com/adnanhb/flowrag/internal/walker"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Ingest a directory of documents into the knowledge base",
	Long: `Walks a directory, extracts text from every matching document, chunks
and embeds it, and stores the result in the knowledge base. Defaults to the
current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSlice("include", nil, "glob patterns to include (overrides config)")
	ingestCmd.Flags().StringSlice("exclude", nil, "glob patterns to exclude (overrides config)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}
	rootDir, err = filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("resolving directory: %w", err)
	}

	include := cfg.Include
	exclude := cfg.Exclude
	if flagInclude, _ := cmd.Flags().GetStringSlice("include"); len(flagInclude) > 0 {
		include = flagInclude
	}
	if flagExclude, _ := cmd.Flags().GetStringSlice("exclude"); len(flagExclude) > 0 {
		exclude = flagExclude
	}

	// Pre-walk for a file count so the progress bar has a total.
	files, err := walker.Walk(walker.Config{
		RootDir: rootDir,
		Include: include,
		Exclude: exclude,
	})
	if err != nil {
		return fmt.Errorf("scanning %s: %w", rootDir, err)
	}
	if len(files) == 0 {
		fmt.Println("No matching documents found.")
		return nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Found %d documents in %s\n", len(files), rootDir)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "flowrag.db"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	svc := documents.NewService(database, store, documents.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		PersistDir:   cfg.DataDir,
	}, verboseLogf())

	reporter := progress.NewReporter()
	reporter.Start(len(files), "Ingesting documents")
	processed := 0
	stats, err := svc.IngestDir(ctx, rootDir, include, exclude, func(f walker.FileInfo) {
		processed++
		reporter.Update(processed, f.RelPath)
	})
	reporter.Finish()
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Ingestion complete!")
	fmt.Printf("  Documents indexed: %d\n", stats.Files)
	fmt.Printf("  Chunks embedded:   %d\n", stats.Chunks)
	fmt.Printf("  Failed:            %d\n", stats.Failed)
	fmt.Printf("  Total in index:    %d chunks\n", store.Count())
	fmt.Printf("  Duration:          %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// verboseLogf returns a diagnostic logger that only prints with --verbose.
func verboseLogf() func(format string, args ...any) {
	if !verbose {
		return nil
	}
	return func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
	}
}
