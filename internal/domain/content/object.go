package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentObject is the stable identity of a piece of learning content
// across all of its versions. TenantID is nil for globally shared content.
type ContentObject struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	Slug      string     `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Subject   string     `gorm:"column:subject;not null;index" json:"subject"`
	GradeBand string     `gorm:"column:grade_band;not null;index" json:"grade_band"`
	TenantID  *uuid.UUID `gorm:"type:uuid;column:tenant_id;index" json:"tenant_id,omitempty"`

	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContentObject) TableName() string { return "content_object" }

// SharedGlobally reports whether the object is visible to every tenant.
func (o *ContentObject) SharedGlobally() bool { return o.TenantID == nil }
