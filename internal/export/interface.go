package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/mychatbot/internal"
)

// Kind is one of the supported export formats
type Kind int

const (
	KindJSON Kind = iota
	KindTXT
	KindCSV
	KindPDF
)

// Kinds lists every export format in menu order
func Kinds() []Kind {
	return []Kind{KindJSON, KindTXT, KindCSV, KindPDF}
}

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindTXT:
		return "txt"
	case KindCSV:
		return "csv"
	case KindPDF:
		return "pdf"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a format name to a Kind
func ParseKind(format string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return KindJSON, nil
	case "txt", "text":
		return KindTXT, nil
	case "csv":
		return KindCSV, nil
	case "pdf":
		return KindPDF, nil
	default:
		return 0, fmt.Errorf("unsupported format: %s (supported: json, txt, csv, pdf)", format)
	}
}

// Options carries the export instant and the zone used for human-readable
// datetimes
type Options struct {
	Now      time.Time
	Location *time.Location
}

func (o Options) normalized() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(session *internal.Session, w io.Writer) error
	Extension() string
	MIMEType() string
}

// NewExporter creates a new exporter for kind
func NewExporter(kind Kind, opts Options) (Exporter, error) {
	opts = opts.normalized()
	switch kind {
	case KindJSON:
		return &JSONExporter{opts: opts}, nil
	case KindTXT:
		return &TextExporter{opts: opts}, nil
	case KindCSV:
		return &CSVExporter{}, nil
	case KindPDF:
		return &PDFExporter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", kind)
	}
}

// Result is a formatted export ready to be saved
type Result struct {
	Kind     Kind
	Data     []byte
	MIMEType string
	FileName string
}

// Format renders session in the given format
func Format(session *internal.Session, kind Kind, opts Options) (Result, error) {
	opts = opts.normalized()
	exporter, err := NewExporter(kind, opts)
	if err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := exporter.Export(session, &buf); err != nil {
		return Result{}, &internal.ExportError{Format: kind.String(), Path: session.ID, Err: err}
	}

	return Result{
		Kind:     kind,
		Data:     buf.Bytes(),
		MIMEType: exporter.MIMEType(),
		FileName: FileName(session.Name, exporter.Extension(), opts.Now.In(opts.Location)),
	}, nil
}

// Timestamps in machine-readable exports are UTC with millisecond precision
const isoMillis = "2006-01-02T15:04:05.000Z"

func isoTimestamp(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// localeDateTime is the human-readable datetime used in TXT and PDF exports
const localeDateTime = "1/2/2006, 3:04:05 PM"

func localTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(localeDateTime)
}
