// Package export renders a snapshot of the note list as a downloadable
// artifact.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/csheth/lingonotes/internal/notes"
	"github.com/csheth/lingonotes/internal/settings"
)

// FilePrefix starts every exported file name.
const FilePrefix = "lingonotes_"

const timestampLayout = "2006-01-02 15:04:05"

var (
	// ErrNothingToExport is returned for an empty snapshot; no artifact is produced.
	ErrNothingToExport = errors.New("No notes to export!")
	ErrUnknownFormat   = errors.New("export: unknown format")
)

// Format selects the artifact type.
type Format string

const (
	FormatText Format = "txt"
	FormatDoc  Format = "doc"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported formats in menu order.
func Formats() []Format {
	return []Format{FormatText, FormatDoc, FormatPDF}
}

// ParseFormat accepts "txt", "text", "doc", "word" or "pdf".
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "txt", "text":
		return FormatText, nil
	case "doc", "word":
		return FormatDoc, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, value)
	}
}

// Document is everything a renderer needs.
type Document struct {
	Entries    []notes.Entry
	SourceLang string
	TargetLang string
	ExportedAt time.Time
	Editor     settings.Editor
}

// Title is the heading shared by every format.
func (d Document) Title() string {
	return fmt.Sprintf("LingoNotes - %s to %s", d.TargetLang, d.SourceLang)
}

// Timestamp is the human-readable export time.
func (d Document) Timestamp() string {
	return d.ExportedAt.Format(timestampLayout)
}

// Artifact is a rendered export.
type Artifact struct {
	Name     string
	MIMEType string
	Data     []byte
}

// FileName builds the artifact name for format at t.
func FileName(format Format, t time.Time) string {
	return fmt.Sprintf("%s%d.%s", FilePrefix, t.UnixMilli(), format)
}

// Render produces the artifact for format. An empty snapshot yields
// ErrNothingToExport for every format.
func Render(format Format, doc Document) (Artifact, error) {
	if len(doc.Entries) == 0 {
		return Artifact{}, ErrNothingToExport
	}
	if doc.ExportedAt.IsZero() {
		doc.ExportedAt = time.Now()
	}
	doc.Editor = doc.Editor.Normalize()

	var (
		data []byte
		mime string
		err  error
	)
	switch format {
	case FormatText:
		data, mime = renderText(doc), "text/plain; charset=utf-8"
	case FormatDoc:
		data, mime = renderDoc(doc), "application/msword"
	case FormatPDF:
		data, err = renderPDF(doc)
		mime = "application/pdf"
	default:
		return Artifact{}, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("render %s: %w", format, err)
	}
	return Artifact{Name: FileName(format, doc.ExportedAt), MIMEType: mime, Data: data}, nil
}

// Write stores the artifact in dir and returns its path.
func Write(dir string, a Artifact) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, a.Name)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func renderText(doc Document) []byte {
	var b strings.Builder
	b.WriteString(doc.Title())
	b.WriteString("\nExported on: ")
	b.WriteString(doc.Timestamp())
	b.WriteString("\n\n")
	for i, e := range doc.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(entryLine(e))
	}
	return []byte(b.String())
}

func entryLine(e notes.Entry) string {
	return e.Original + " -> " + e.DisplayTranslation()
}
