package translator

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnknownLanguage is returned when a name or code cannot be resolved.
var ErrUnknownLanguage = errors.New("translator: unknown language")

// Language pairs a display name with its BCP 47 tag.
type Language struct {
	Name string
	Code string
	Tag  language.Tag
}

var supported = []Language{
	{Name: "English", Code: "en", Tag: language.English},
	{Name: "Spanish", Code: "es", Tag: language.Spanish},
	{Name: "French", Code: "fr", Tag: language.French},
	{Name: "German", Code: "de", Tag: language.German},
	{Name: "Italian", Code: "it", Tag: language.Italian},
	{Name: "Portuguese", Code: "pt", Tag: language.Portuguese},
	{Name: "Russian", Code: "ru", Tag: language.Russian},
	{Name: "Japanese", Code: "ja", Tag: language.Japanese},
	{Name: "Korean", Code: "ko", Tag: language.Korean},
	{Name: "Chinese", Code: "zh", Tag: language.Chinese},
	{Name: "Arabic", Code: "ar", Tag: language.Arabic},
}

// Languages returns the languages offered in pickers, in display order.
func Languages() []Language {
	return append([]Language(nil), supported...)
}

// LookupLanguage resolves a display name ("German") or a BCP 47 code ("de",
// "pt-BR"). Codes outside the picker list are named with their English
// display name.
func LookupLanguage(value string) (Language, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Language{}, fmt.Errorf("%w: empty", ErrUnknownLanguage)
	}
	for _, lang := range supported {
		if strings.EqualFold(lang.Name, value) || strings.EqualFold(lang.Code, value) {
			return lang, nil
		}
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Language{}, fmt.Errorf("%w %q", ErrUnknownLanguage, value)
	}
	base, _ := tag.Base()
	name := display.English.Languages().Name(tag)
	if name == "" {
		name = value
	}
	return Language{Name: name, Code: base.String(), Tag: tag}, nil
}

// LanguageIndex reports the picker position of name, or -1.
func LanguageIndex(name string) int {
	for i, lang := range supported {
		if strings.EqualFold(lang.Name, name) {
			return i
		}
	}
	return -1
}
