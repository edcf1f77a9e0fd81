package catalog

import "testing"

func TestDescription_PrefersRequestedLanguage(t *testing.T) {
	a := NewArtwork("a", WithDescriptions(map[string]string{"it": "ciao", "en": "hello", "fr": "salut"}))

	got, ok := a.Description("fr")
	if !ok || got != "salut" {
		t.Errorf("Description(fr) = %q, %v; want salut, true", got, ok)
	}
}

func TestDescription_FallsBackItalianThenEnglish(t *testing.T) {
	a := NewArtwork("a", WithDescriptions(map[string]string{"it": "ciao", "en": "hello"}))
	if got, _ := a.Description("de"); got != "ciao" {
		t.Errorf("Description(de) = %q, want ciao", got)
	}

	b := NewArtwork("b", WithDescriptions(map[string]string{"en": "A", "fr": "B"}))
	if got, _ := b.Description("de"); got != "A" {
		t.Errorf("Description(de) = %q, want A (English before arbitrary)", got)
	}
}

func TestDescription_ArbitraryWhenNeitherFallbackPresent(t *testing.T) {
	a := NewArtwork("a", WithDescriptions(map[string]string{"fr": "salut"}))
	if got, ok := a.Description("de"); !ok || got != "salut" {
		t.Errorf("Description(de) = %q, %v; want salut, true", got, ok)
	}
}

func TestDescription_NoDescriptions(t *testing.T) {
	a := NewArtwork("a")
	if _, ok := a.Description("en"); ok {
		t.Error("Description on artwork without descriptions should report ok=false")
	}
}

func TestDescriptions_ReturnsCopy(t *testing.T) {
	a := NewArtwork("a", WithDescriptions(map[string]string{"en": "hello"}))
	m := a.Descriptions()
	m["en"] = "mutated"

	if got, _ := a.Description("en"); got != "hello" {
		t.Errorf("internal map mutated through accessor copy: %q", got)
	}
}
