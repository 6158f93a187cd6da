// Package file provides a filesystem retrieval log that writes one
// directory of JSON documents per request.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
)

// Ensure AuditSink implements the interface.
var _ driven.AuditSink = (*AuditSink)(nil)

// ErrDuplicateArtifact is returned when an artefact was already recorded for a request.
var ErrDuplicateArtifact = errors.New("artifact already recorded")

// AuditSink writes <dir>/<request-id>/<artifact>.json.
// Files are written atomically via a temporary file and rename.
type AuditSink struct {
	dir string
}

// NewAuditSink creates a file audit sink rooted at dir.
// If dir is empty, defaults to ~/.kanoonsetu/audit.
func NewAuditSink(dir string) (*AuditSink, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".kanoonsetu", "audit")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}
	return &AuditSink{dir: dir}, nil
}

// Dir returns the root directory.
func (s *AuditSink) Dir() string {
	return s.dir
}

// Record writes one payload. JSON payloads are pretty-printed; anything
// else is stored verbatim.
func (s *AuditSink) Record(_ context.Context, requestID, artifact string, payload []byte) error {
	if err := validName(requestID); err != nil {
		return fmt.Errorf("file audit: request id: %w", err)
	}
	if err := validName(artifact); err != nil {
		return fmt.Errorf("file audit: artifact: %w", err)
	}

	reqDir := filepath.Join(s.dir, requestID)
	if err := os.MkdirAll(reqDir, 0700); err != nil {
		return fmt.Errorf("file audit: creating request directory: %w", err)
	}

	target := filepath.Join(reqDir, artifact+".json")
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("%s/%s: %w", requestID, artifact, ErrDuplicateArtifact)
	}

	return writeAtomic(target, prettyJSON(payload))
}

// Close releases resources.
func (s *AuditSink) Close() error {
	return nil
}

func writeAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("file audit: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file audit: writing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file audit: closing: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("file audit: chmod: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("file audit: renaming: %w", err)
	}
	return nil
}

func prettyJSON(payload []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "    "); err != nil {
		return payload
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

func validName(name string) error {
	switch {
	case name == "":
		return errors.New("empty name")
	case name == "." || name == "..":
		return fmt.Errorf("invalid name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name %q contains a path separator", name)
	}
	return nil
}
