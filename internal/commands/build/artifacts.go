package buildcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact names written to the output directory.
const (
	GraphFile     = "graph.json"
	BacklinksFile = "backlinks.json"
	ContentFile   = "content.json"
	BooksFile     = "books.json"
	HighlightFile = "highlight.css"
)

// artifactWriter abstracts where build outputs land.
type artifactWriter interface {
	WriteFile(ctx context.Context, name string, data []byte) error
}

// stagedWriter collects artifacts in a hidden directory under root and moves
// them into place on Commit. Nothing under root changes before Commit.
type stagedWriter struct {
	root    string
	staging string
	names   []string
}

func newStagedWriter(root string) (*stagedWriter, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	staging, err := os.MkdirTemp(root, ".contentkit-staging-*")
	if err != nil {
		return nil, err
	}
	return &stagedWriter{root: root, staging: staging}, nil
}

func (w *stagedWriter) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(w.staging, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	w.names = append(w.names, name)
	return nil
}

// Commit renames every staged artifact over its target, in write order, and
// removes the staging directory.
func (w *stagedWriter) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, name := range w.names {
		if err := os.Rename(filepath.Join(w.staging, name), filepath.Join(w.root, name)); err != nil {
			return fmt.Errorf("publish %s: %w", name, err)
		}
	}
	return os.RemoveAll(w.staging)
}

// Discard drops whatever is still staged.
func (w *stagedWriter) Discard() error {
	return os.RemoveAll(w.staging)
}

// EncodeJSON indents value and keeps HTML unescaped, matching the artifact files.
func EncodeJSON(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
