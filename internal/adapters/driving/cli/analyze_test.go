package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestPipeline(t, &mockAdvisoryService{})

	_, err := runRoot(t, "", "analyze")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAnalyzeCmd_HasQuestionFlag(t *testing.T) {
	flag := analyzeCmd.Flags().Lookup("question")
	require.NotNil(t, flag, "question flag should exist")
	assert.Equal(t, "q", flag.Shorthand)
}

func TestAnalyzeCmd_SendsFileToPipeline(t *testing.T) {
	svc := &mockAdvisoryService{}
	setupTestPipeline(t, svc)
	path := filepath.Join(t.TempDir(), "lease.txt")
	require.NoError(t, os.WriteFile(path, []byte("This lease is made on..."), 0o600))

	out, err := runRoot(t, "", "analyze", path, "-q", "Is the lock-in clause valid?")

	require.NoError(t, err)
	require.Len(t, svc.analyzed, 1)
	req := svc.analyzed[0]
	assert.Equal(t, "lease.txt", req.Document.Filename)
	assert.Equal(t, []byte("This lease is made on..."), req.Document.Content)
	assert.Equal(t, "Is the lock-in clause valid?", req.Question)
	assert.Contains(t, out, "Analysis of lease.txt")
	assert.Contains(t, out, "Summary: a lease.")
}

func TestAnalyzeCmd_MissingFile(t *testing.T) {
	svc := &mockAdvisoryService{}
	setupTestPipeline(t, svc)

	_, err := runRoot(t, "", "analyze", filepath.Join(t.TempDir(), "missing.pdf"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")
	assert.Empty(t, svc.analyzed)
}
