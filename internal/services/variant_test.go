package services

import (
	"testing"

	"gorm.io/datatypes"

	types "github.com/brightfold/content-backend/internal/domain"
)

func TestVariantChecksumSharedAcrossFallbackLocales(t *testing.T) {
	r := NewLocaleResolver("en")
	v := versionWithTranslations()

	sumEN, _, err := variantChecksum(r, "en", v)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	// A locale with no translation falls back to the base content and
	// must share the base checksum so consumers can deduplicate.
	sumFR, _, err := variantChecksum(r, "fr", v)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	if sumEN != sumFR {
		t.Fatalf("expected identical checksums for fallback content, got %s and %s", sumEN, sumFR)
	}
}

func TestVariantChecksumDiffersWithTranslation(t *testing.T) {
	r := NewLocaleResolver("en")
	title := "Fracciones"
	v := versionWithTranslations(types.Translation{
		Locale: "es",
		Status: types.TranslationStatusReady,
		ContentOverride: datatypes.NewJSONType(types.ContentOverride{
			Title: &title,
		}),
	})

	sumEN, _, err := variantChecksum(r, "en", v)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	sumES, _, err := variantChecksum(r, "es", v)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	if sumEN == sumES {
		t.Fatalf("expected translated content to change the checksum")
	}
}

func TestContentKeyShape(t *testing.T) {
	v := versionWithTranslations()
	key := ContentKey(v.ID, "es-MX")
	want := "content/" + v.ID.String() + "/es-MX.json"
	if key != want {
		t.Fatalf("expected %s, got %s", want, key)
	}
}
