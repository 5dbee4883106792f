package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	VersionStateDraft     = "draft"
	VersionStatePublished = "published"
	VersionStateRetired   = "retired"
)

// ContentBlock is one unit of renderable content inside a version payload.
type ContentBlock struct {
	Kind     string `json:"kind"` // "text", "video", "exercise", "diagram"
	Text     string `json:"text,omitempty"`
	MediaKey string `json:"media_key,omitempty"`
	Minutes  int    `json:"minutes,omitempty"`
}

// ContentPayload is the typed base payload of a version. Translations
// override it field by field, never wholesale.
type ContentPayload struct {
	Title   string         `json:"title"`
	Summary string         `json:"summary,omitempty"`
	Blocks  []ContentBlock `json:"blocks,omitempty"`
}

// ContentMetadata carries the display/selection attributes of a version.
type ContentMetadata struct {
	ContentType      string   `json:"content_type,omitempty"` // "lesson", "exercise", "video", "game"
	Difficulty       string   `json:"difficulty,omitempty"`   // "easy", "medium", "hard"
	EstimatedMinutes int      `json:"estimated_minutes,omitempty"`
	SkillIDs         []string `json:"skill_ids,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
}

// ContentVersion is an immutable numbered snapshot of a ContentObject.
// Publishing and retiring are state transitions; the payload never changes
// after creation.
type ContentVersion struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ObjectID uuid.UUID `gorm:"type:uuid;column:object_id;not null;index:idx_version_object_number,unique" json:"object_id"`

	VersionNumber int    `gorm:"column:version_number;not null;index:idx_version_object_number,unique" json:"version_number"`
	State         string `gorm:"column:state;not null;default:'draft';index" json:"state"`

	Payload       datatypes.JSONType[ContentPayload]     `gorm:"column:payload;type:jsonb" json:"payload"`
	Accessibility datatypes.JSONType[AccessibilityFlags] `gorm:"column:accessibility;type:jsonb" json:"accessibility"`
	Metadata      datatypes.JSONType[ContentMetadata]    `gorm:"column:metadata;type:jsonb" json:"metadata"`

	Translations []Translation `gorm:"foreignKey:VersionID" json:"translations,omitempty"`

	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContentVersion) TableName() string { return "content_version" }

// TranslationFor returns the translation row for a locale, or nil.
func (v *ContentVersion) TranslationFor(locale string) *Translation {
	for i := range v.Translations {
		if v.Translations[i].Locale == locale {
			return &v.Translations[i]
		}
	}
	return nil
}
