package export

import (
	"io"
	"strings"

	"github.com/iksnae/mychatbot/internal"
)

const csvHeader = "Timestamp,Sender,Message"

// CSVExporter exports sessions as Timestamp,Sender,Message rows. The
// message column is always quoted.
type CSVExporter struct{}

// Export writes the header and one row per message, newline separated
func (e *CSVExporter) Export(session *internal.Session, w io.Writer) error {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for i, msg := range session.Messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(isoTimestamp(msg.Timestamp))
		b.WriteByte(',')
		b.WriteString(csvSender(msg.Sender))
		b.WriteByte(',')
		b.WriteString(quoteCSV(msg.Text))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func csvSender(s internal.Sender) string {
	if s == internal.SenderUser {
		return "User"
	}
	return "Bot"
}

func quoteCSV(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}

// MIMEType returns the media type for this format
func (e *CSVExporter) MIMEType() string {
	return "text/csv"
}
