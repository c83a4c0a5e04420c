package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "flowrag",
	Short: "Retrieval-augmented workflow backend for document Q&A",
	Long: `flowrag ingests your documents into a semantic knowledge base and
answers questions through declarative workflows: retrieval context is
assembled from the knowledge base and optional web search, then a
generation backend (OpenAI or Gemini) produces the answer.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".flowrag.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
