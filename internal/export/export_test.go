package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/csheth/lingonotes/internal/notes"
	"github.com/csheth/lingonotes/internal/settings"
)

var exportedAt = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleDocument(entries ...notes.Entry) Document {
	return Document{
		Entries:    entries,
		SourceLang: settings.DefaultSourceLang,
		TargetLang: settings.DefaultTargetLang,
		ExportedAt: exportedAt,
		Editor:     settings.Default(),
	}
}

func completed(original, translation string) notes.Entry {
	return notes.Entry{ID: original, Original: original, Translation: translation, Status: notes.StatusCompleted}
}

func TestRenderEmptySnapshot(t *testing.T) {
	for _, format := range Formats() {
		if _, err := Render(format, sampleDocument()); !errors.Is(err, ErrNothingToExport) {
			t.Fatalf("Render(%s) error = %v, want ErrNothingToExport", format, err)
		}
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(Format("odt"), sampleDocument(completed("a", "b")))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Render error = %v, want ErrUnknownFormat", err)
	}
}

func TestRenderText(t *testing.T) {
	doc := sampleDocument(
		completed("Guten Morgen", "Good morning"),
		notes.Entry{ID: "2", Original: "Danke", Status: notes.StatusPending},
		notes.Entry{ID: "3", Original: "Hotel", Translation: "Hotel", Status: notes.StatusCompleted, Untranslated: true},
	)
	art, err := Render(FormatText, doc)
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}
	want := "LingoNotes - German to English\n" +
		"Exported on: 2025-03-14 09:26:53\n\n" +
		"Guten Morgen -> Good morning\n" +
		"Danke -> ...\n" +
		"Hotel -> Hotel (untranslated)"
	if got := string(art.Data); got != want {
		t.Fatalf("text export =\n%s\nwant\n%s", got, want)
	}
	if art.Name != "lingonotes_1741944413000.txt" {
		t.Fatalf("Name = %q", art.Name)
	}
	if !strings.HasPrefix(art.MIMEType, "text/plain") {
		t.Fatalf("MIMEType = %q", art.MIMEType)
	}
}

func TestRenderDoc(t *testing.T) {
	doc := sampleDocument(
		completed("Guten Morgen", "Good morning"),
		completed("a*b <c>", "x_y"),
	)
	art, err := Render(FormatDoc, doc)
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}
	body := string(art.Data)
	for _, want := range []string{
		"urn:schemas-microsoft-com:office:word",
		"<meta charset='utf-8'>",
		"<h1>LingoNotes - German to English</h1>",
		"Exported on: 2025-03-14 09:26:53",
		"<strong>Guten Morgen</strong>",
		"<em>Good morning</em>",
		"<strong>a*b &lt;c&gt;</strong>",
		"<em>x_y</em>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("doc export missing %q:\n%s", want, body)
		}
	}
	if art.MIMEType != "application/msword" || !strings.HasSuffix(art.Name, ".doc") {
		t.Fatalf("artifact = %q %q", art.Name, art.MIMEType)
	}
}

func TestRenderDocKeepsTextLiteral(t *testing.T) {
	doc := sampleDocument(
		completed("~~nope~~", "see https://example.com"),
		completed("&amp; literal", "a -- b \"quoted\" 1/2"),
	)
	art, err := Render(FormatDoc, doc)
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}
	body := string(art.Data)
	for _, unwanted := range []string{"<del>", "<a href", "&ndash;", "&ldquo;", "&frac12;"} {
		if strings.Contains(body, unwanted) {
			t.Fatalf("doc export rewrote user text (%q):\n%s", unwanted, body)
		}
	}
	for _, want := range []string{
		"<strong>~~nope~~</strong>",
		"https://example.com</em>",
		"<strong>&amp;amp; literal</strong>",
		"a -- b",
		"1/2",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("doc export missing %q:\n%s", want, body)
		}
	}
}

func TestRenderDocFollowsEditorFont(t *testing.T) {
	doc := sampleDocument(completed("a", "b"))
	doc.Editor.FontFamily = settings.FontMono
	doc.Editor.FontSize = 24
	doc.Editor.Bold = true
	art, err := Render(FormatDoc, doc)
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}
	body := string(art.Data)
	for _, want := range []string{"JetBrains Mono", "font-size: 24pt", "font-weight: bold"} {
		if !strings.Contains(body, want) {
			t.Fatalf("doc export missing %q", want)
		}
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		lines int
		pages int
	}{
		{1, 1},
		{24, 1},
		{25, 2},
		{50, 2},
		{51, 3},
	}
	for _, tt := range tests {
		placements := Paginate(make([]string, tt.lines))
		if len(placements) != tt.lines {
			t.Fatalf("Paginate(%d) placed %d lines", tt.lines, len(placements))
		}
		if got := placements[len(placements)-1].Page; got != tt.pages {
			t.Fatalf("Paginate(%d) last page = %d, want %d", tt.lines, got, tt.pages)
		}
	}
}

func TestPaginatePositions(t *testing.T) {
	placements := Paginate(make([]string, 26))
	if placements[0].Y != 40 || placements[1].Y != 50 {
		t.Fatalf("first lines at %v, %v", placements[0].Y, placements[1].Y)
	}
	if p := placements[23]; p.Page != 1 || p.Y != 270 {
		t.Fatalf("line 24 = %+v, want page 1 y 270", p)
	}
	if p := placements[24]; p.Page != 2 || p.Y != 20 {
		t.Fatalf("line 25 = %+v, want page 2 y 20", p)
	}
	if p := placements[25]; p.Page != 2 || p.Y != 30 {
		t.Fatalf("line 26 = %+v, want page 2 y 30", p)
	}
}

func TestRenderPDF(t *testing.T) {
	entries := make([]notes.Entry, 0, 30)
	for i := 0; i < 30; i++ {
		entries = append(entries, completed("Guten Morgen", "Good morning"))
	}
	art, err := Render(FormatPDF, sampleDocument(entries...))
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}
	if !bytes.HasPrefix(art.Data, []byte("%PDF")) {
		t.Fatalf("pdf export does not start with a PDF header")
	}
	reader, err := pdf.NewReader(bytes.NewReader(art.Data), int64(len(art.Data)))
	if err != nil {
		t.Fatalf("pdf.NewReader error = %v", err)
	}
	if got := reader.NumPage(); got != 2 {
		t.Fatalf("NumPage = %d, want 2", got)
	}
}

func TestPDFFont(t *testing.T) {
	e := settings.Default()
	e.FontFamily = settings.FontSerif
	e.Bold, e.Italic = true, true
	family, style := pdfFont(e)
	if family != "Times" || style != "BI" {
		t.Fatalf("pdfFont = %q %q", family, style)
	}
	family, style = pdfFont(settings.Default())
	if family != "Helvetica" || style != "" {
		t.Fatalf("pdfFont(default) = %q %q", family, style)
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	art, err := Render(FormatText, sampleDocument(completed("Danke", "Thanks")))
	if err != nil {
		t.Fatalf("Render error = %v", err)
	}
	path, err := Write(dir, art)
	if err != nil {
		t.Fatalf("Write error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}
	if !bytes.Equal(data, art.Data) {
		t.Fatalf("written data differs")
	}
	if filepath.Base(path) != art.Name {
		t.Fatalf("path = %q", path)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"txt": FormatText, "Text": FormatText, "word": FormatDoc, "PDF": FormatPDF} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("odt"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("ParseFormat(odt) error = %v", err)
	}
}
