package uri

import "strings"

// Language is the closed enumeration spec.md §3.1 requires ("at least: en, de, fr,
// ro, ar, bg, ru, fi, tr, sl").
type Language uint8

const (
	LanguageEn Language = iota
	LanguageDe
	LanguageFr
	LanguageRo
	LanguageAr
	LanguageBg
	LanguageRu
	LanguageFi
	LanguageTr
	LanguageSl
)

var languageNames = [...]string{
	LanguageEn: "en",
	LanguageDe: "de",
	LanguageFr: "fr",
	LanguageRo: "ro",
	LanguageAr: "ar",
	LanguageBg: "bg",
	LanguageRu: "ru",
	LanguageFi: "fi",
	LanguageTr: "tr",
	LanguageSl: "sl",
}

// String renders the canonical two-letter code for l=.
func (l Language) String() string {
	if int(l) < len(languageNames) {
		return languageNames[l]
	}
	return "??"
}

// ParseLanguage decodes a two-letter code, failing for anything outside the closed
// enumeration (InvalidLanguage, §4.1).
func ParseLanguage(s string) (Language, bool) {
	s = strings.ToLower(s)
	for i, n := range languageNames {
		if n == s {
			return Language(i), true
		}
	}
	return 0, false
}
