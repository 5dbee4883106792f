package content

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChangeTypeAdded   = "added"
	ChangeTypeUpdated = "updated"
	ChangeTypeRemoved = "removed"
)

// ContentChangeRecord is one append-only row per (version, locale, change).
// Rows are never mutated after creation; they are the durable basis for
// delta queries. Checksum and SizeBytes are nil for removed entries.
// Subject/grade band are denormalized from the object so delta queries can
// filter without joining the catalog.
type ContentChangeRecord struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	TenantID  *uuid.UUID `gorm:"type:uuid;column:tenant_id;index" json:"tenant_id,omitempty"`
	ObjectID  uuid.UUID  `gorm:"type:uuid;column:object_id;not null;index" json:"object_id"`
	VersionID uuid.UUID  `gorm:"type:uuid;column:version_id;not null;index" json:"version_id"`

	Locale     string `gorm:"column:locale;not null" json:"locale"`
	ChangeType string `gorm:"column:change_type;not null" json:"change_type"`

	Subject       string `gorm:"column:subject;index" json:"subject"`
	GradeBand     string `gorm:"column:grade_band;index" json:"grade_band"`
	VersionNumber int    `gorm:"column:version_number" json:"version_number"`

	ContentKey string  `gorm:"column:content_key" json:"content_key,omitempty"`
	Checksum   *string `gorm:"column:checksum" json:"checksum,omitempty"`
	SizeBytes  *int64  `gorm:"column:size_bytes" json:"size_bytes,omitempty"`

	ChangedAt time.Time `gorm:"column:changed_at;not null;index" json:"changed_at"`
}

func (ContentChangeRecord) TableName() string { return "content_change_record" }
