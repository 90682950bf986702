package models

// Language is an ISO 639-1 tag of a supported conversation language
type Language string

const (
	LanguageMarathi Language = "mr"
	LanguageEnglish Language = "en"
)

func (l Language) String() string {
	return string(l)
}
