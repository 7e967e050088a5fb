// Package settings holds the presentation preferences applied to the note
// list and to exported documents. They live for one session only.
package settings

import (
	"fmt"
	"strings"

	"github.com/csheth/lingonotes/internal/translator"
)

const (
	MinFontSize     = 8
	MaxFontSize     = 72
	DefaultFontSize = 18

	DefaultSourceLang = "English"
	DefaultTargetLang = "German"
)

// FontFamily is one of the three offered typefaces.
type FontFamily string

const (
	FontSans  FontFamily = "sans"
	FontSerif FontFamily = "serif"
	FontMono  FontFamily = "mono"
)

var fontOrder = []FontFamily{FontSans, FontSerif, FontMono}

// Label is the human name shown in pickers.
func (f FontFamily) Label() string {
	switch f {
	case FontSerif:
		return "Lora"
	case FontMono:
		return "JetBrains Mono"
	default:
		return "Inter"
	}
}

// ParseFontFamily accepts a family key or its label.
func ParseFontFamily(value string) (FontFamily, error) {
	value = strings.TrimSpace(value)
	for _, f := range fontOrder {
		if strings.EqualFold(string(f), value) || strings.EqualFold(f.Label(), value) {
			return f, nil
		}
	}
	return "", fmt.Errorf("settings: unknown font family %q", value)
}

// Editor is the set of user-adjustable display preferences.
type Editor struct {
	FontFamily FontFamily
	FontSize   int
	Bold       bool
	Italic     bool
	SourceLang string
	TargetLang string
}

// Default returns the start-up settings.
func Default() Editor {
	return Editor{
		FontFamily: FontSans,
		FontSize:   DefaultFontSize,
		SourceLang: DefaultSourceLang,
		TargetLang: DefaultTargetLang,
	}
}

// Normalize clamps the size and fills unset fields with defaults.
func (e Editor) Normalize() Editor {
	def := Default()
	if _, err := ParseFontFamily(string(e.FontFamily)); err != nil {
		e.FontFamily = def.FontFamily
	}
	if e.FontSize == 0 {
		e.FontSize = def.FontSize
	}
	e.FontSize = ClampFontSize(e.FontSize)
	if strings.TrimSpace(e.SourceLang) == "" {
		e.SourceLang = def.SourceLang
	}
	if strings.TrimSpace(e.TargetLang) == "" {
		e.TargetLang = def.TargetLang
	}
	return e
}

// ClampFontSize bounds size to [MinFontSize, MaxFontSize].
func ClampFontSize(size int) int {
	return max(MinFontSize, min(MaxFontSize, size))
}

func (e *Editor) ToggleBold()   { e.Bold = !e.Bold }
func (e *Editor) ToggleItalic() { e.Italic = !e.Italic }

// ResizeFont adjusts the size by delta within the allowed range.
func (e *Editor) ResizeFont(delta int) {
	e.FontSize = ClampFontSize(e.FontSize + delta)
}

// CycleFont advances to the next font family.
func (e *Editor) CycleFont() {
	for i, f := range fontOrder {
		if f == e.FontFamily {
			e.FontFamily = fontOrder[(i+1)%len(fontOrder)]
			return
		}
	}
	e.FontFamily = fontOrder[0]
}

func (e *Editor) SetSource(lang string) { e.SourceLang = strings.TrimSpace(lang) }
func (e *Editor) SetTarget(lang string) { e.TargetLang = strings.TrimSpace(lang) }

// CycleSource moves the source language delta steps through the picker list.
func (e *Editor) CycleSource(delta int) {
	e.SourceLang = cycleLanguage(e.SourceLang, delta)
}

// CycleTarget moves the target language delta steps through the picker list.
func (e *Editor) CycleTarget(delta int) {
	e.TargetLang = cycleLanguage(e.TargetLang, delta)
}

// SwapLanguages exchanges source and target.
func (e *Editor) SwapLanguages() {
	e.SourceLang, e.TargetLang = e.TargetLang, e.SourceLang
}

func cycleLanguage(current string, delta int) string {
	langs := translator.Languages()
	idx := translator.LanguageIndex(current)
	if idx < 0 {
		return langs[0].Name
	}
	n := len(langs)
	return langs[((idx+delta)%n+n)%n].Name
}

// Summary is a one-line description for status bars.
func (e Editor) Summary() string {
	var style []string
	if e.Bold {
		style = append(style, "bold")
	}
	if e.Italic {
		style = append(style, "italic")
	}
	label := fmt.Sprintf("%s → %s · %s %dpt", e.SourceLang, e.TargetLang, e.FontFamily.Label(), e.FontSize)
	if len(style) > 0 {
		label += " " + strings.Join(style, "+")
	}
	return label
}
