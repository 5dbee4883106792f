package services

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/brightfold/content-backend/internal/domain"
)

func TestFallbackChain(t *testing.T) {
	r := NewLocaleResolver("en")

	got := r.FallbackChain("es-MX")
	want := []string{"es-MX", "es", "en"}
	if len(got) != len(want) {
		t.Fatalf("expected chain %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected chain %v, got %v", want, got)
		}
	}

	// Requesting the default collapses to a single entry.
	if got := r.FallbackChain("en"); len(got) != 1 || got[0] != "en" {
		t.Fatalf("expected [en], got %v", got)
	}

	// Base language equal to the tag is not duplicated.
	if got := r.FallbackChain("fr"); len(got) != 2 || got[0] != "fr" || got[1] != "en" {
		t.Fatalf("expected [fr en], got %v", got)
	}
}

func TestBaseLanguageOf(t *testing.T) {
	if got := baseLanguageOf("es-MX"); got != "es" {
		t.Fatalf("expected es, got %s", got)
	}
	if got := baseLanguageOf("pt_BR"); got != "pt" {
		t.Fatalf("expected pt, got %s", got)
	}
	if got := baseLanguageOf("en"); got != "en" {
		t.Fatalf("expected en, got %s", got)
	}
}

func versionWithTranslations(trs ...types.Translation) *types.ContentVersion {
	return &types.ContentVersion{
		ID: uuid.New(),
		Payload: datatypes.NewJSONType(types.ContentPayload{
			Title:   "Fractions: an introduction",
			Summary: "What a fraction is",
		}),
		Accessibility: datatypes.NewJSONType(types.AccessibilityFlags{TextToSpeech: true}),
		Metadata: datatypes.NewJSONType(types.ContentMetadata{
			SkillIDs: []string{"frac.intro"},
		}),
		Translations: trs,
	}
}

func TestResolveFallsThroughPendingTranslation(t *testing.T) {
	r := NewLocaleResolver("en")
	v := versionWithTranslations(
		types.Translation{Locale: "es", Status: types.TranslationStatusPending},
	)

	got := r.Resolve("es-MX", v)
	if got.Locale != "en" {
		t.Fatalf("expected fallback to en, got %s", got.Locale)
	}
	if !got.FallbackLocaleUsed {
		t.Fatalf("expected fallback_locale_used")
	}
	if got.Payload.Title != "Fractions: an introduction" {
		t.Fatalf("expected base payload, got %q", got.Payload.Title)
	}
}

func TestResolvePrefersReadyTranslation(t *testing.T) {
	r := NewLocaleResolver("en")
	title := "Fracciones: una introducción"
	v := versionWithTranslations(
		types.Translation{
			Locale: "es",
			Status: types.TranslationStatusReady,
			ContentOverride: datatypes.NewJSONType(types.ContentOverride{
				Title: &title,
			}),
		},
	)

	got := r.Resolve("es-MX", v)
	if got.Locale != "es" {
		t.Fatalf("expected es, got %s", got.Locale)
	}
	if !got.FallbackLocaleUsed {
		t.Fatalf("es-MX resolving to es is still a fallback")
	}
	if got.Payload.Title != title {
		t.Fatalf("expected translated title, got %q", got.Payload.Title)
	}
	// Fields without overrides inherit the base.
	if got.Payload.Summary != "What a fraction is" {
		t.Fatalf("expected base summary, got %q", got.Payload.Summary)
	}
}

func TestResolveExactMatchIsNotFallback(t *testing.T) {
	r := NewLocaleResolver("en")
	v := versionWithTranslations(
		types.Translation{Locale: "es-MX", Status: types.TranslationStatusReady},
	)

	got := r.Resolve("es-MX", v)
	if got.Locale != "es-MX" || got.FallbackLocaleUsed {
		t.Fatalf("expected exact match without fallback, got %s fallback=%v", got.Locale, got.FallbackLocaleUsed)
	}
}

func TestResolveEmptyLocaleUsesDefault(t *testing.T) {
	r := NewLocaleResolver("en")
	v := versionWithTranslations()

	got := r.Resolve("", v)
	if got.Locale != "en" || got.FallbackLocaleUsed {
		t.Fatalf("expected default locale without fallback, got %s fallback=%v", got.Locale, got.FallbackLocaleUsed)
	}
}

func TestMergeMetadataNeverOverridesSkills(t *testing.T) {
	ct := "exercise"
	base := types.ContentMetadata{SkillIDs: []string{"frac.intro"}, ContentType: "lesson"}
	got := MergeMetadata(base, types.MetadataOverride{ContentType: &ct, Keywords: []string{"fracciones"}})

	if got.ContentType != "exercise" {
		t.Fatalf("expected content type override, got %s", got.ContentType)
	}
	if len(got.SkillIDs) != 1 || got.SkillIDs[0] != "frac.intro" {
		t.Fatalf("expected skill ids untouched, got %v", got.SkillIDs)
	}
	if len(got.Keywords) != 1 || got.Keywords[0] != "fracciones" {
		t.Fatalf("expected keywords override, got %v", got.Keywords)
	}
}

func TestMergeAccessibilityPartialOverride(t *testing.T) {
	low := types.CognitiveLoadLow
	f := false
	base := types.AccessibilityFlags{TextToSpeech: true, CognitiveLoad: types.CognitiveLoadHigh}
	got := MergeAccessibility(base, types.AccessibilityOverride{
		TextToSpeech:  &f,
		CognitiveLoad: &low,
	})

	if got.TextToSpeech {
		t.Fatalf("expected text to speech overridden to false")
	}
	if got.CognitiveLoad != types.CognitiveLoadLow {
		t.Fatalf("expected cognitive load low, got %s", got.CognitiveLoad)
	}
}
