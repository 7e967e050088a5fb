package translator

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a precise translator. Return only the translation, without quotes, explanations, or notes."

func sourceOrAuto(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return "the detected language"
	}
	return lang
}

func buildTranslatePrompt(req Request) string {
	return fmt.Sprintf(
		"Translate the following text strictly from %s to %s.\n"+
			"Return ONLY the translated string without quotes, explanations, or notes.\n\n"+
			"Text: %s",
		sourceOrAuto(req.SourceLang), strings.TrimSpace(req.TargetLang), strings.TrimSpace(req.Text),
	)
}
