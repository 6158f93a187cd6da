package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the retrieval mode, LLM provider, translation backend
and languages. Settings are stored in config.toml; API keys may also be supplied
through environment variables or a .env file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsModeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Set retrieval mode",
	Long: `Set how case law is retrieved from Indian Kanoon.

Available modes:
  snippets - Top 3 results, each with document metadata
  headline - Top result snippet only
  document - Full text of the best matching judgment`,
	RunE: runSettingsMode,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider that writes the advisory.`,
	RunE:  runSettingsLLM,
}

var settingsTranslationCmd = &cobra.Command{
	Use:   "translation",
	Short: "Configure translation backend",
	Long:  `Configure the translation backend used when the user language differs from the pivot language.`,
	RunE:  runSettingsTranslation,
}

var settingsLanguagesCmd = &cobra.Command{
	Use:   "languages [user] [pivot]",
	Short: "Set user and pivot languages",
	Long: `Set the user-facing language and the pivot language used for retrieval and
generation, as BCP 47 codes. The pivot defaults to en.

Example:
  kanoonsetu settings languages hi en`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsLanguages,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsModeCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsTranslationCmd)
	settingsCmd.AddCommand(settingsLanguagesCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Mode: %s\n", settings.Pipeline.Mode.Description())
	cmd.Printf("  Languages: %s (pivot %s)\n", settings.Pipeline.UserLanguage, settings.Pipeline.PivotLanguage)
	b := settings.Pipeline.Budget
	cmd.Printf("  Budget: %d tokens total, %d output, %d context chars\n",
		b.TotalTokens, b.MaxOutputTokens, b.MaxContextChars)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" || settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", displayKey(settings.LLM.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Indian Kanoon]")
	cmd.Printf("  Base URL: %s\n", settings.Kanoon.BaseURL)
	cmd.Printf("  API Token: %s\n", displayKey(settings.Kanoon.APIToken))
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Kanoon.IsConfigured()))
	cmd.Println()

	cmd.Println("[Translation]")
	cmd.Printf("  Provider: %s\n", settings.Translation.Provider)
	if settings.Translation.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Translation.BaseURL)
	}
	if settings.Translation.Provider == domain.TranslationProviderGoogle {
		cmd.Printf("  API Key: %s\n", displayKey(settings.Translation.APIKey))
	}
	if settings.Pipeline.MediationEnabled() {
		cmd.Printf("  Mediation: %s <-> %s\n", settings.Pipeline.UserLanguage, settings.Pipeline.PivotLanguage)
	} else {
		cmd.Println("  Mediation: off")
	}
	cmd.Println()

	cmd.Println("[Audit]")
	cmd.Printf("  Backend: %s\n", settings.Audit.Backend)
	if settings.Audit.Dir != "" {
		cmd.Printf("  Directory: %s\n", settings.Audit.Dir)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'kanoonsetu settings llm' or set the API keys in your environment.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsMode(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select Retrieval Mode")
	cmd.Println("---------------------")
	modes := domain.AllRetrievalModes()
	for i, mode := range modes {
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
	}
	cmd.Print("\nEnter choice: ")
	idx := parseChoice(readLine(reader), len(modes), 0)
	if idx == 0 {
		return errors.New("invalid selection")
	}

	selected := modes[idx-1]
	if err := settingsService.SetRetrievalMode(selected); err != nil {
		return fmt.Errorf("failed to set retrieval mode: %w", err)
	}

	cmd.Printf("Retrieval mode set to: %s\n", selected.Description())
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", selected.Description(), model)
	return nil
}

func runSettingsTranslation(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	providers := []domain.TranslationProvider{
		domain.TranslationProviderNone,
		domain.TranslationProviderGoogle,
		domain.TranslationProviderLibre,
	}
	cmd.Println("Select Translation Backend")
	cmd.Println("  1. None (single language)")
	cmd.Println("  2. Google Cloud Translation")
	cmd.Println("  3. LibreTranslate")
	cmd.Print("\nEnter choice [1]: ")
	selected := providers[parseChoice(readLine(reader), len(providers), 1)-1]

	var baseURL, apiKey string
	switch selected {
	case domain.TranslationProviderGoogle:
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for Google Cloud Translation")
		}
	case domain.TranslationProviderLibre:
		cmd.Print("Enter server URL: ")
		baseURL = readLine(reader)
		if baseURL == "" {
			return errors.New("server URL is required for LibreTranslate")
		}
		cmd.Print("Enter API key (optional): ")
		apiKey = readLine(reader)
	case domain.TranslationProviderNone:
	}

	if err := settingsService.SetTranslationProvider(selected, baseURL, apiKey); err != nil {
		return fmt.Errorf("failed to configure translation: %w", err)
	}

	cmd.Printf("Translation backend set to: %s\n", selected)
	return nil
}

func runSettingsLanguages(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	user := args[0]
	pivot := "en"
	if len(args) == 2 {
		pivot = args[1]
	}

	if err := settingsService.SetLanguages(user, pivot); err != nil {
		return fmt.Errorf("failed to set languages: %w", err)
	}

	cmd.Printf("Languages set to: %s (pivot %s)\n", user, pivot)
	if (domain.PipelineSettings{UserLanguage: user, PivotLanguage: pivot}).MediationEnabled() {
		settings, _ := settingsService.Get() //nolint:errcheck // Best-effort check
		if settings != nil && !settings.Translation.IsConfigured() {
			cmd.Println("\nNote: these languages need a translation backend.")
			cmd.Println("Run 'kanoonsetu settings translation' to configure.")
		}
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads a secret without echo when in is a terminal.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func displayKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
