// Package docio provides JSON import and export for diagram documents.
//
// Export writes the full document, pretty-printed, so users can inspect
// and version their diagrams. Import validates the top-level structure
// before anything touches the working document: a file without a "nodes"
// array is rejected outright.
package docio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/errors"
)

// ExportFilename returns the default download name for an export,
// diagram-<unix-timestamp>.json
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("diagram-%d.json", now.Unix())
}

// WriteJSON encodes the document as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(doc *diagram.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the document to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc *diagram.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}

// ReadJSON decodes a diagram document from r.
//
// The input must be a JSON object with a "nodes" array; edges and paths
// are optional. Anything else, including a JSON document that merely
// lacks the "nodes" key, fails with an invalid-import error and no
// partial result.
func ReadJSON(r io.Reader) (*diagram.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImport, err, "not a JSON object")
	}
	rawNodes, ok := envelope["nodes"]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidImport, "missing top-level nodes array")
	}
	var probe []json.RawMessage
	if err := json.Unmarshal(rawNodes, &probe); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidImport, "nodes is not an array")
	}

	var doc diagram.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImport, err, "decode document")
	}
	if err := doc.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImport, err, "invalid document")
	}
	return &doc, nil
}

// ImportJSON reads a JSON file at path and returns the decoded document.
//
// ImportJSON returns the same validation errors as [ReadJSON] for
// malformed documents.
func ImportJSON(path string) (*diagram.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
