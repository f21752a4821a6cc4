package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/mychatbot/internal"
)

type jsonDocument struct {
	SessionName string        `json:"sessionName"`
	ExportDate  string        `json:"exportDate"`
	Messages    []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	Sender    internal.Sender `json:"sender"`
	Text      string          `json:"text"`
	Timestamp string          `json:"timestamp"`
}

// JSONExporter exports sessions in JSON format (pretty-printed)
type JSONExporter struct {
	opts Options
}

// Export exports a session to JSON format
func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	doc := jsonDocument{
		SessionName: session.Name,
		ExportDate:  isoTimestamp(e.opts.Now),
		Messages:    make([]jsonMessage, 0, len(session.Messages)),
	}
	for _, msg := range session.Messages {
		doc.Messages = append(doc.Messages, jsonMessage{
			Sender:    msg.Sender,
			Text:      msg.Text,
			Timestamp: isoTimestamp(msg.Timestamp),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(doc)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}

// MIMEType returns the media type for this format
func (e *JSONExporter) MIMEType() string {
	return "application/json"
}
