package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adnanhb/flowrag/internal/db"
	"github.com/adnanhb/flowrag/internal/execlog"
	mcpserver "github.com/adnanhb/flowrag/internal/mcp"
	"github.com/adnanhb/flowrag/internal/workflow"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing knowledge base search and workflow execution tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		if store.Count() == 0 {
			fmt.Fprintln(os.Stderr, "Warning: knowledge base is empty. Run `flowrag ingest` first.")
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "flowrag.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		pool := buildPool(cfg)
		engine := workflow.NewEngine(store, buildSearcher(), pool, execlog.NewStore(database), workflow.Settings{
			Model:            string(cfg.DefaultModel),
			Temperature:      cfg.Temperature,
			UseKnowledgeBase: cfg.UseKnowledgeBase,
			MaxContextChunks: cfg.MaxContextChunks,
			WebResultCount:   cfg.WebResultCount,
		}, verboseLogf())

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "flowrag MCP server started on stdio (chunks=%d)\n", store.Count())

		srv := mcpserver.NewServer(store, engine)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
