// Package report renders the roster for other tools: a structured export
// and a weekly gear and vault summary.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/wowstat/pkg/character"
)

// Format selects the export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrFormat reports an unsupported export format.
var ErrFormat = errors.New("report: unsupported format")

// ParseFormat accepts "yaml", "yml" and "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, s)
	}
}

// Document is the exported roster.
type Document struct {
	WeekID     string                 `json:"week_id" yaml:"week_id"`
	Characters []*character.Character `json:"characters" yaml:"characters"`
}

// Export writes doc to w in the given format.
func Export(w io.Writer, format Format, doc Document) error {
	if doc.Characters == nil {
		doc.Characters = []*character.Character{}
	}
	return encode(w, format, doc)
}

// ExportSummary writes a weekly summary to w in the given format.
func ExportSummary(w io.Writer, format Format, s Summary) error {
	if s.Rows == nil {
		s.Rows = []Row{}
	}
	return encode(w, format, s)
}

func encode(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrFormat, format)
	}
}

// Decode reads a document written by Export. The format is detected from
// the first non-space byte.
func Decode(data []byte) (Document, error) {
	var doc Document
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("decode json: %w", err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode yaml: %w", err)
	}
	return doc, nil
}
