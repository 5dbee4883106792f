package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/brightfold/content-backend/internal/domain"
)

// ResolvedContent is the consumer-facing view of one content variant after
// locale resolution and accessibility scoring.
type ResolvedContent struct {
	ObjectID      uuid.UUID `json:"object_id"`
	VersionID     uuid.UUID `json:"version_id"`
	Slug          string    `json:"slug"`
	Subject       string    `json:"subject"`
	GradeBand     string    `json:"grade_band"`
	VersionNumber int       `json:"version_number"`

	RequestedLocale    string `json:"requested_locale"`
	Locale             string `json:"locale"`
	FallbackLocaleUsed bool   `json:"fallback_locale_used"`

	Payload       types.ContentPayload     `json:"payload"`
	Accessibility types.AccessibilityFlags `json:"accessibility"`
	Metadata      types.ContentMetadata    `json:"metadata"`

	AccessibilityScore float64    `json:"accessibility_score"`
	Checksum           string     `json:"checksum"`
	SizeBytes          int64      `json:"size_bytes"`
	PublishedAt        *time.Time `json:"published_at,omitempty"`
}

// ResolvedVariant is the output of pure locale resolution, before any
// catalog metadata is attached.
type ResolvedVariant struct {
	Locale             string
	FallbackLocaleUsed bool
	Payload            types.ContentPayload
	Accessibility      types.AccessibilityFlags
	Metadata           types.ContentMetadata
}

// LocaleResolver picks the best localized variant of a version via a
// fallback chain and merges translation overrides field by field.
type LocaleResolver struct {
	defaultLocale string
}

func NewLocaleResolver(defaultLocale string) *LocaleResolver {
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	return &LocaleResolver{defaultLocale: defaultLocale}
}

func (r *LocaleResolver) DefaultLocale() string { return r.defaultLocale }

// FallbackChain returns [requested, baseLanguage(requested), default],
// de-duplicated in order. "es-MX" yields ["es-MX", "es", "en"].
func (r *LocaleResolver) FallbackChain(requested string) []string {
	chain := make([]string, 0, 3)
	seen := make(map[string]bool, 3)
	add := func(locale string) {
		if locale == "" || seen[locale] {
			return
		}
		seen[locale] = true
		chain = append(chain, locale)
	}
	add(requested)
	add(baseLanguageOf(requested))
	add(r.defaultLocale)
	return chain
}

func baseLanguageOf(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return locale[:i]
	}
	return locale
}

// Resolve walks the fallback chain over the version's translations and
// returns the first READY match merged over the version's base fields.
// When nothing matches, the base content stands in for the default locale.
// FallbackLocaleUsed is true whenever the resolved locale differs from the
// requested one.
func (r *LocaleResolver) Resolve(requested string, v *types.ContentVersion) ResolvedVariant {
	if requested == "" {
		requested = r.defaultLocale
	}

	base := ResolvedVariant{
		Locale:        r.defaultLocale,
		Payload:       v.Payload.Data(),
		Accessibility: v.Accessibility.Data(),
		Metadata:      v.Metadata.Data(),
	}

	for _, locale := range r.FallbackChain(requested) {
		tr := v.TranslationFor(locale)
		if tr == nil {
			// The default locale is always available via the base
			// content, even without a translation row.
			if locale == r.defaultLocale {
				break
			}
			continue
		}
		if !tr.Ready() {
			continue
		}
		base.Locale = locale
		base.Payload = MergePayload(base.Payload, tr.ContentOverride.Data())
		base.Accessibility = MergeAccessibility(base.Accessibility, tr.AccessibilityOverride.Data())
		base.Metadata = MergeMetadata(base.Metadata, tr.MetadataOverride.Data())
		break
	}

	base.FallbackLocaleUsed = base.Locale != requested
	return base
}

// MergePayload overlays a translation's partial content override on the
// version payload. Translation wins field by field when present.
func MergePayload(base types.ContentPayload, override types.ContentOverride) types.ContentPayload {
	out := base
	if override.Title != nil {
		out.Title = *override.Title
	}
	if override.Summary != nil {
		out.Summary = *override.Summary
	}
	if len(override.Blocks) > 0 {
		out.Blocks = override.Blocks
	}
	return out
}

// MergeAccessibility overlays a translation's partial accessibility
// refinement on the version flags.
func MergeAccessibility(base types.AccessibilityFlags, override types.AccessibilityOverride) types.AccessibilityFlags {
	out := base
	if override.DyslexiaFriendlyFont != nil {
		out.DyslexiaFriendlyFont = *override.DyslexiaFriendlyFont
	}
	if override.ReducedStimuli != nil {
		out.ReducedStimuli = *override.ReducedStimuli
	}
	if override.ScreenReaderStructured != nil {
		out.ScreenReaderStructured = *override.ScreenReaderStructured
	}
	if override.HighContrast != nil {
		out.HighContrast = *override.HighContrast
	}
	if override.TextToSpeech != nil {
		out.TextToSpeech = *override.TextToSpeech
	}
	if override.CognitiveLoad != nil {
		out.CognitiveLoad = *override.CognitiveLoad
	}
	return out
}

// MergeMetadata overlays a translation's partial metadata override on the
// version metadata. Skill ids are identity-level and never overridden.
func MergeMetadata(base types.ContentMetadata, override types.MetadataOverride) types.ContentMetadata {
	out := base
	if override.ContentType != nil {
		out.ContentType = *override.ContentType
	}
	if override.Difficulty != nil {
		out.Difficulty = *override.Difficulty
	}
	if override.EstimatedMinutes != nil {
		out.EstimatedMinutes = *override.EstimatedMinutes
	}
	if len(override.Keywords) > 0 {
		out.Keywords = override.Keywords
	}
	return out
}
