package services

import (
	"fmt"

	"github.com/google/uuid"

	types "github.com/brightfold/content-backend/internal/domain"
	"github.com/brightfold/content-backend/internal/pkg/checksum"
)

// ContentKey is the storage key of one distributable (version, locale)
// content document.
func ContentKey(versionID uuid.UUID, locale string) string {
	return fmt.Sprintf("content/%s/%s.json", versionID, locale)
}

// canonicalVariant is the unit of content the platform checksums: the
// locale-resolved payload, accessibility flags and metadata. The locale
// itself is not part of the bytes, so a locale that falls back to the base
// content shares the base checksum and consumers can deduplicate on it.
type canonicalVariant struct {
	Payload       types.ContentPayload     `json:"payload"`
	Accessibility types.AccessibilityFlags `json:"accessibility"`
	Metadata      types.ContentMetadata    `json:"metadata"`
}

func variantChecksum(r *LocaleResolver, locale string, v *types.ContentVersion) (string, int64, error) {
	variant := r.Resolve(locale, v)
	return checksum.SumCanonical(canonicalVariant{
		Payload:       variant.Payload,
		Accessibility: variant.Accessibility,
		Metadata:      variant.Metadata,
	})
}
