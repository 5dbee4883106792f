package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TranslationStatusPending = "pending"
	TranslationStatusReady   = "ready"
)

// ContentOverride is a per-translation partial override of the version
// payload. Nil fields inherit the base value.
type ContentOverride struct {
	Title   *string        `json:"title,omitempty"`
	Summary *string        `json:"summary,omitempty"`
	Blocks  []ContentBlock `json:"blocks,omitempty"`
}

// MetadataOverride is a per-translation partial override of the version
// metadata. Nil fields inherit the base value.
type MetadataOverride struct {
	ContentType      *string  `json:"content_type,omitempty"`
	Difficulty       *string  `json:"difficulty,omitempty"`
	EstimatedMinutes *int     `json:"estimated_minutes,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
}

// Translation is a locale-specific refinement of one version. Only READY
// translations are ever surfaced during resolution.
type Translation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VersionID uuid.UUID `gorm:"type:uuid;column:version_id;not null;index:idx_translation_version_locale,unique" json:"version_id"`

	Locale string `gorm:"column:locale;not null;index:idx_translation_version_locale,unique" json:"locale"`
	Status string `gorm:"column:status;not null;default:'pending';index" json:"status"`

	ContentOverride       datatypes.JSONType[ContentOverride]       `gorm:"column:content_override;type:jsonb" json:"content_override"`
	AccessibilityOverride datatypes.JSONType[AccessibilityOverride] `gorm:"column:accessibility_override;type:jsonb" json:"accessibility_override"`
	MetadataOverride      datatypes.JSONType[MetadataOverride]      `gorm:"column:metadata_override;type:jsonb" json:"metadata_override"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Translation) TableName() string { return "content_translation" }

// Ready reports whether the translation can be used for resolution.
func (t *Translation) Ready() bool { return t.Status == TranslationStatusReady }
