// Package export writes conversation transcripts in interchange formats.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/loomchat/loom/core/protocol"
)

// Transcript is a session's exportable view: its directory metadata plus the
// full message sequence fetched from the backend.
type Transcript struct {
	SessionID   string             `json:"sessionId" yaml:"sessionId"`
	Preview     string             `json:"preview,omitempty" yaml:"preview,omitempty"`
	LastTouched time.Time          `json:"lastTouched,omitempty" yaml:"lastTouched,omitempty"`
	Messages    []protocol.Message `json:"messages" yaml:"messages"`
}

// Exporter writes a transcript in one concrete format.
type Exporter interface {
	Export(t *Transcript, w io.Writer) error
	Extension() string
}

// NewExporter creates an exporter for the named format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, jsonl, yaml, md)", format)
	}
}
