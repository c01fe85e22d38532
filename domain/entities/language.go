package entities

import "strings"

// Language is a UI language code.
type Language string

const (
	LanguageEnglish   Language = "en"
	LanguageHindi     Language = "hi"
	LanguageMarathi   Language = "mr"
	LanguageBengali   Language = "bn"
	LanguageGujarati  Language = "gu"
	LanguageTamil     Language = "ta"
	LanguageTelugu    Language = "te"
	LanguageKannada   Language = "kn"
	LanguageMalayalam Language = "ml"
	LanguagePunjabi   Language = "pa"
	LanguageOdia      Language = "or"
)

// LanguageInfo describes one supported language.
type LanguageInfo struct {
	Code       Language `json:"code"`
	Label      string   `json:"label"`
	NativeName string   `json:"native_name"`
}

// SupportedLanguages lists the languages the app ships display strings for.
var SupportedLanguages = []LanguageInfo{
	{LanguageEnglish, "English", "English"},
	{LanguageHindi, "Hindi", "हिंदी"},
	{LanguageMarathi, "Marathi", "मराठी"},
	{LanguageBengali, "Bengali", "বাংলা"},
	{LanguageGujarati, "Gujarati", "ગુજરાતી"},
	{LanguageTamil, "Tamil", "தமிழ்"},
	{LanguageTelugu, "Telugu", "తెలుగు"},
	{LanguageKannada, "Kannada", "ಕನ್ನಡ"},
	{LanguageMalayalam, "Malayalam", "മലയാളം"},
	{LanguagePunjabi, "Punjabi", "ਪੰਜਾਬੀ"},
	{LanguageOdia, "Odia", "ଓଡ଼ିଆ"},
}

// recognitionLocales maps language codes to regional recognition locale tags.
var recognitionLocales = map[Language]string{
	LanguageEnglish:   "en-IN",
	LanguageHindi:     "hi-IN",
	LanguageMarathi:   "mr-IN",
	LanguageBengali:   "bn-IN",
	LanguageGujarati:  "gu-IN",
	LanguageTamil:     "ta-IN",
	LanguageTelugu:    "te-IN",
	LanguageKannada:   "kn-IN",
	LanguageMalayalam: "ml-IN",
	LanguagePunjabi:   "pa-IN",
	LanguageOdia:      "or-IN",
}

// DefaultLocale is used for unmapped languages.
const DefaultLocale = "en-IN"

// LocaleFor returns the recognition locale tag for a language. Unmapped
// languages fall back to Indian English.
func LocaleFor(lang Language) string {
	if locale, ok := recognitionLocales[lang]; ok {
		return locale
	}
	return DefaultLocale
}

// localDigits maps language codes to their native digit runes 0-9.
var localDigits = map[Language][]rune{
	LanguageHindi:     []rune("०१२३४५६७८९"),
	LanguageMarathi:   []rune("०१२३४५६७८९"),
	LanguageBengali:   []rune("০১২৩৪৫৬৭৮৯"),
	LanguageGujarati:  []rune("૦૧૨૩૪૫૬૭૮૯"),
	LanguageTamil:     []rune("௦௧௨௩௪௫௬௭௮௯"),
	LanguageKannada:   []rune("೦೧೨೩೪೫೬೭೮೯"),
	LanguageMalayalam: []rune("൦൧൨൩൪൫൬൭൮൯"),
	LanguagePunjabi:   []rune("੦੧੨੩੪੫੬੭੮੯"),
	LanguageOdia:      []rune("୦୧୨୩୪୫୬୭୮୯"),
}

// ToLocalDigits transliterates ASCII digits in s to the language's native
// digits. Languages without a digit map pass through unchanged.
func ToLocalDigits(s string, lang Language) string {
	digits, ok := localDigits[lang]
	if !ok {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(digits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
