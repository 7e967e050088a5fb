package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/csheth/lingonotes/internal/settings"
)

const wordEnvelopeOpen = `<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'>
<head><meta charset='utf-8'><title>%s</title>
<style>body { font-family: %s; font-size: %dpt;%s }</style>
</head><body>
`

const wordEnvelopeClose = "</body></html>\n"

// markdownEscaper makes user text literal. A bare & becomes an entity so
// text such as "&amp;" survives the HTML round trip.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`",
	`[`, `\[`, `]`, `\]`, `<`, `\<`, `>`, `\>`, `#`, `\#`,
	`&`, `&amp;`,
)

// Autolinks, strikethrough and smart punctuation are off so entries render as typed.
const (
	docExtensions = parser.CommonExtensions &^ (parser.Autolink | parser.Strikethrough)
	docHTMLFlags  = mdhtml.CommonFlags &^ (mdhtml.Smartypants | mdhtml.SmartypantsFractions |
		mdhtml.SmartypantsDashes | mdhtml.SmartypantsLatexDashes)
)

// renderDoc builds a Word-importable HTML document. Entries are written as
// Markdown (original in bold, translation in italics) and converted to HTML.
func renderDoc(doc Document) []byte {
	var md strings.Builder
	for _, e := range doc.Entries {
		fmt.Fprintf(&md, "**%s** — *%s*\n\n",
			markdownEscaper.Replace(e.Original),
			markdownEscaper.Replace(e.DisplayTranslation()))
	}

	var b strings.Builder
	title := html.EscapeString(doc.Title())
	fmt.Fprintf(&b, wordEnvelopeOpen, title, cssFontFamily(doc.Editor.FontFamily), doc.Editor.FontSize, cssStyle(doc.Editor))
	fmt.Fprintf(&b, "<h1>%s</h1>\n", title)
	fmt.Fprintf(&b, "<p>Exported on: %s</p>\n<hr/>\n", html.EscapeString(doc.Timestamp()))
	b.WriteString(markdownToHTML(md.String()))
	b.WriteString(wordEnvelopeClose)
	return []byte(b.String())
}

func markdownToHTML(md string) string {
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: docHTMLFlags})
	p := parser.NewWithExtensions(docExtensions)
	return string(markdown.Render(p.Parse([]byte(md)), renderer))
}

func cssFontFamily(f settings.FontFamily) string {
	switch f {
	case settings.FontSerif:
		return "'Lora', Georgia, serif"
	case settings.FontMono:
		return "'JetBrains Mono', 'Courier New', monospace"
	default:
		return "'Inter', Arial, sans-serif"
	}
}

func cssStyle(e settings.Editor) string {
	var parts []string
	if e.Bold {
		parts = append(parts, " font-weight: bold;")
	}
	if e.Italic {
		parts = append(parts, " font-style: italic;")
	}
	return strings.Join(parts, "")
}
