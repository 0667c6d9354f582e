package export

import (
	"encoding/json"
	"io"
)

// JSONExporter writes the whole transcript as one indented JSON document.
type JSONExporter struct{}

func (e *JSONExporter) Export(t *Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// Extension returns the file extension for this format.
func (e *JSONExporter) Extension() string {
	return "json"
}

// JSONLExporter writes one JSON object per message, suitable for streaming
// consumers.
type JSONLExporter struct{}

func (e *JSONLExporter) Export(t *Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, msg := range t.Messages {
		record := struct {
			SessionID string `json:"sessionId"`
			Role      string `json:"role"`
			Text      string `json:"text"`
		}{
			SessionID: t.SessionID,
			Role:      string(msg.Role),
			Text:      msg.Text,
		}
		if err := enc.Encode(record); err != nil {
			return err
		}
	}
	return nil
}

// Extension returns the file extension for this format.
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
