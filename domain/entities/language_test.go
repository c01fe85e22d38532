package entities

import "testing"

func TestLocaleFor(t *testing.T) {
	if got := LocaleFor(LanguageHindi); got != "hi-IN" {
		t.Errorf("Expected hi-IN, got %s", got)
	}
	if got := LocaleFor(LanguageOdia); got != "or-IN" {
		t.Errorf("Expected or-IN, got %s", got)
	}
	if got := LocaleFor(Language("xx")); got != DefaultLocale {
		t.Errorf("Expected fallback %s, got %s", DefaultLocale, got)
	}
}

func TestToLocalDigits(t *testing.T) {
	if got := ToLocalDigits("150", LanguageHindi); got != "१५०" {
		t.Errorf("Expected १५०, got %s", got)
	}
	if got := ToLocalDigits("Rs 40/kg", LanguageBengali); got != "Rs ৪০/kg" {
		t.Errorf("Unexpected transliteration: %s", got)
	}
	// English and Telugu keep ASCII digits.
	if got := ToLocalDigits("150", LanguageEnglish); got != "150" {
		t.Errorf("Expected passthrough, got %s", got)
	}
}
