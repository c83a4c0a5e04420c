package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adnanhb/flowrag/internal/db"
	"github.com/adnanhb/flowrag/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the flowrag HTTP backend",
	Long:  `Starts the flowrag backend with the workflow, document, chat and execution log APIs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serverPort > 0 {
			cfg.Port = serverPort
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}

		dbPath := filepath.Join(cfg.DataDir, "flowrag.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		pool := buildPool(cfg)
		srv := server.New(cfg, database, store, buildSearcher(), pool)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "flowrag server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Indexed chunks: %d\n", store.Count())
		for name, available := range pool.Availability() {
			fmt.Fprintf(os.Stderr, "  Provider %s: available=%t\n", name, available)
		}

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
