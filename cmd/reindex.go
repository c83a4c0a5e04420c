package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/adnanhb/flowrag/internal/config"
	"github.com/adnanhb/flowrag/internal/db"
	"github.com/adnanhb/flowrag/internal/documents"
	"github.com/adnanhb/flowrag/internal/progress"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Re-embed the whole knowledge base from stored document text",
	Long: `Rebuilds the vector index by re-chunking and re-embedding every
cataloged document from its stored text. Use after changing the embedding
backend or chunking settings; no documents are re-read from disk.`,
	RunE: runReindex,
}

func init() {
	reindexCmd.Flags().String("embedder", "", "embedding backend to use: openai or ollama (overrides config)")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if embedder, _ := cmd.Flags().GetString("embedder"); embedder != "" {
		switch config.EmbeddingProvider(embedder) {
		case config.EmbeddingOpenAI, config.EmbeddingOllama:
			cfg.EmbeddingProvider = config.EmbeddingProvider(embedder)
		default:
			return fmt.Errorf("unknown embedding backend %q (want openai or ollama)", embedder)
		}
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

	docs, err := svc.List(ctx)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Println("Knowledge base is empty; nothing to reindex.")
		return nil
	}

	reporter := progress.NewReporter()
	reporter.Start(len(docs), "Reindexing documents")

	var chunks, failed int
	for i, doc := range docs {
		reporter.Update(i+1, doc.Filename)
		updated, err := svc.Reprocess(ctx, doc.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: reindexing %s: %v\n", doc.Filename, err)
			failed++
			continue
		}
		chunks += updated.ChunkCount
	}
	reporter.Finish()

	fmt.Println()
	fmt.Println("Reindex complete!")
	fmt.Printf("  Documents:  %d (%d failed)\n", len(docs)-failed, failed)
	fmt.Printf("  Chunks:     %d\n", chunks)
	fmt.Printf("  Duration:   %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
