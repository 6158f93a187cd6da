package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
	"github.com/custodia-labs/kanoonsetu/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

const promptExt = ".txt"

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store initialises lazily: files are only created when first accessed,
// not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// They are used when user files don't exist and as the initial content for new files.
// The query and document templates take two %s verbs: the user content, then the case-law context.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptSystem: `You are a highly experienced Legal Advisor specialising in Indian law. You assist lawyers, judges, and law students with detailed, accurate, and actionable insights. When responding:

1. Identify the core legal issues.
2. Explain the applicable laws, sections, acts, or principles and cite the exact provisions.
3. Reference relevant case precedents and summarise their significance.
4. Give practical guidance on procedure and key considerations.
5. Address ambiguities or recent developments affecting the issue.
6. Conclude with clear next steps.

Use plain, professional language. Base case references on the supplied case-law context and say so when it is insufficient.`,

	driven.PromptQuery: `Answer the following legal query in a structured format.

User Query:
%s

Relevant Indian Kanoon Context:
%s

Structure the response as:
1. Key Defence Points
2. Supportive Points
3. Case Overview (judges, court, case details where known)
4. Reason for Dispute
5. Legal Precedents and their relevance
6. Recommendations and next steps

Keep the response concise, factual, and actionable.`,

	driven.PromptDocument: `Analyse the following legal document.

Document:
%s

Relevant Indian Kanoon Context:
%s

Structure the analysis as:
1. Summary of the document
2. Key legal issues raised
3. Applicable laws and sections
4. Relevant precedents from the context
5. Risks, gaps, or ambiguities
6. Recommendations and next steps`,

	driven.LocalisedPrompt(driven.PromptSystem, "hi"): `आप भारतीय कानून के अनुभवी कानूनी सलाहकार हैं। वकीलों, न्यायाधीशों और कानून के छात्रों को सटीक, विस्तृत और व्यावहारिक सलाह दें। प्रासंगिक धाराओं, अधिनियमों और नज़ीरों का उल्लेख करें, और उत्तर केवल हिंदी में दें।`,

	driven.LocalisedPrompt(driven.PromptQuery, "hi"): `निम्नलिखित कानूनी प्रश्न का संरचित उत्तर दें।

उपयोगकर्ता का प्रश्न:
%s

इंडियन कानून से प्रासंगिक संदर्भ:
%s

उत्तर में शामिल करें: मुख्य बचाव बिंदु, सहायक बिंदु, मामले का विवरण, विवाद का कारण, नज़ीरें, और आगे के कदम।`,

	driven.LocalisedPrompt(driven.PromptDocument, "hi"): `निम्नलिखित कानूनी दस्तावेज़ का विश्लेषण करें।

दस्तावेज़:
%s

इंडियन कानून से प्रासंगिक संदर्भ:
%s

विश्लेषण में शामिल करें: सारांश, मुख्य कानूनी मुद्दे, लागू धाराएँ, प्रासंगिक नज़ीरें, जोखिम, और सिफ़ारिशें।`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.kanoonsetu/prompts/.
//
// The constructor does not perform any I/O. Directory creation and
// file writes happen lazily on the first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, configDirName, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Falls back to the embedded default if the file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// No lock held during I/O.
	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Watch reloads prompts whenever a template file in the prompt directory
// changes. The returned channel receives the name of each changed prompt
// and is closed when ctx is cancelled.
func (s *PromptStore) Watch(ctx context.Context) (<-chan string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return nil, s.initErr
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := watcher.Add(s.promptDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch prompt directory: %w", err)
	}

	changes := make(chan string, 8)
	go func() {
		defer close(changes)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				name, changed := s.handleFsEvent(event)
				if !changed {
					continue
				}
				s.Reload()
				logger.Debug("Prompt %q changed, cache cleared", name)
				select {
				case changes <- name:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Prompt watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

// handleFsEvent maps a filesystem event to the prompt it affects.
func (s *PromptStore) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != promptExt {
		return "", false
	}
	return strings.TrimSuffix(base, promptExt), true
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Existing files are never overwritten.
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+promptExt)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+promptExt)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# KanoonSetu Prompts

This directory contains the prompt templates used to build advisory requests.

## Files

- ` + "`system.txt`" + ` - System prompt describing the legal advisor role
- ` + "`query.txt`" + ` - Template for free-text legal questions
- ` + "`document.txt`" + ` - Template for uploaded document analysis

A file named ` + "`<name>_<lang>.txt`" + ` (for example ` + "`query_hi.txt`" + `) is
preferred when the user language is ` + "`<lang>`" + `.

## Format Placeholders

` + "`query.txt`" + ` and ` + "`document.txt`" + ` must contain exactly two ` + "`%s`" + `
placeholders: the question or document first, then the case-law context.
` + "`system.txt`" + ` must contain none. Templates with the wrong number of
placeholders are ignored in favour of the built-in defaults.

Edits are picked up automatically by ` + "`kanoonsetu serve`" + ` and on the next command.
`
	return os.WriteFile(path, []byte(content), 0600)
}
