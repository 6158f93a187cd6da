package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

const disclaimer = "This is general legal information, not legal advice. Consult a qualified advocate."

// maxStdinQuery bounds a question piped on stdin.
const maxStdinQuery = 1 << 20

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Ask a legal question",
	Long: `Searches Indian Kanoon for case law relevant to the question and asks the
configured LLM for an answer grounded in that case law.

The question may be given as arguments or piped on stdin:
  kanoonsetu ask "Can my landlord evict me without notice?"
  echo "Is dowry demand a cognisable offence?" | kanoonsetu ask`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the advisory as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		piped, err := readPiped(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading question from stdin: %w", err)
		}
		query = piped
	}

	p, err := loadPipeline(cmd.Context(), PipelineOptions{})
	if err != nil {
		return err
	}

	advisory, err := p.Advisory.Ask(cmd.Context(), domain.AskRequest{Query: query})
	if err != nil {
		return userError(err)
	}

	if askJSON {
		return outputAdvisoryJSON(cmd, advisory)
	}
	outputAdvisory(cmd, advisory)
	return nil
}

// readPiped reads stdin unless it is an interactive terminal.
func readPiped(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", nil
	}
	data, err := io.ReadAll(io.LimitReader(r, maxStdinQuery))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func outputAdvisoryJSON(cmd *cobra.Command, advisory *domain.Advisory) error {
	data, err := json.MarshalIndent(advisory, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal advisory: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAdvisory(cmd *cobra.Command, advisory *domain.Advisory) {
	cmd.Println(advisory.Response)
	cmd.Println()

	titles := advisory.Context.Titles()
	if len(titles) == 0 {
		cmd.Println("No relevant case law was found; the answer is general guidance.")
	} else {
		cmd.Println("Cases consulted:")
		for i, title := range titles {
			cmd.Printf("  [%d] %s\n", i+1, title)
		}
	}
	cmd.Println()
	cmd.Println(disclaimer)
}
