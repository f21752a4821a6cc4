package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/mychatbot/internal"
)

// TextExporter exports sessions as a plain-text transcript
type TextExporter struct {
	opts Options
}

// Export writes the title block followed by one entry per message,
// separated by blank lines
func (e *TextExporter) Export(session *internal.Session, w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Chat Export: %s\n", session.Name)
	fmt.Fprintf(&b, "Exported: %s\n\n", localTimestamp(e.opts.Now, e.opts.Location))

	entries := make([]string, len(session.Messages))
	for i, msg := range session.Messages {
		entries[i] = fmt.Sprintf("[%s] %s: %s", localTimestamp(msg.Timestamp, e.opts.Location), msg.Sender.Label(), msg.Text)
	}
	b.WriteString(strings.Join(entries, "\n\n"))

	_, err := io.WriteString(w, b.String())
	return err
}

// Extension returns the file extension for this format
func (e *TextExporter) Extension() string {
	return "txt"
}

// MIMEType returns the media type for this format
func (e *TextExporter) MIMEType() string {
	return "text/plain"
}
