package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

var (
	analyzeQuestion string
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyse a legal document",
	Long: `Extracts the text of a contract, notice or judgment, finds related case law
on Indian Kanoon and produces a summary, key legal terms, potential risks and
recommendations.

Supported formats: .txt, .pdf, .doc, .docx`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeQuestion, "question", "q", "", "focus the analysis on a specific question")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the advisory as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	p, err := loadPipeline(cmd.Context(), PipelineOptions{})
	if err != nil {
		return err
	}

	advisory, err := p.Advisory.Analyze(cmd.Context(), domain.AnalyzeRequest{
		Document: domain.SourceDocument{Filename: filepath.Base(path), Content: content},
		Question: analyzeQuestion,
	})
	if err != nil {
		return userError(err)
	}

	if analyzeJSON {
		return outputAdvisoryJSON(cmd, advisory)
	}
	cmd.Printf("Analysis of %s\n\n", advisory.Reference)
	outputAdvisory(cmd, advisory)
	return nil
}
