// Package langdetect identifies the language of transcribed text.
package langdetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// detector is built lazily; loading all language models is expensive.
var detector = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromAllSpokenLanguages().
		Build()
})

// Detect returns the ISO 639-1 code and English display name for the
// dominant language of text. Undetectable or empty input yields "auto".
func Detect(text string) (code, name string) {
	if strings.TrimSpace(text) == "" {
		return "auto", ""
	}

	lang, ok := detector().DetectLanguageOf(text)
	if !ok {
		return "auto", ""
	}

	code = strings.ToLower(lang.IsoCode639_1().String())
	tag, err := language.Parse(code)
	if err != nil {
		return code, lang.String()
	}
	return code, display.English.Tags().Name(tag)
}
