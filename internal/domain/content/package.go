package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PackageStatePending  = "pending"
	PackageStateBuilding = "building"
	PackageStateReady    = "ready"
	PackageStateFailed   = "failed"
	PackageStateExpired  = "expired"
)

// ContentPackage is one bulk-export request. It is created by a consumer,
// mutated only by the lifecycle manager's state transitions, and deleted
// only by an explicit consumer action.
type ContentPackage struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	TenantID uuid.UUID `gorm:"type:uuid;column:tenant_id;not null;index" json:"tenant_id"`

	GradeBands datatypes.JSONSlice[string] `gorm:"column:grade_bands;type:jsonb" json:"grade_bands"`
	Subjects   datatypes.JSONSlice[string] `gorm:"column:subjects;type:jsonb" json:"subjects"`
	Locales    datatypes.JSONSlice[string] `gorm:"column:locales;type:jsonb" json:"locales"`

	SinceCutoff        *time.Time `gorm:"column:since_cutoff" json:"since_cutoff,omitempty"`
	URLExpirationHours int        `gorm:"column:url_expiration_hours;not null;default:24" json:"url_expiration_hours"`

	State        string `gorm:"column:state;not null;default:'pending';index" json:"state"`
	ErrorMessage string `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	ManifestKey string `gorm:"column:manifest_key" json:"manifest_key,omitempty"`
	ManifestURL string `gorm:"column:manifest_url;type:text" json:"manifest_url,omitempty"`
	TotalItems  int    `gorm:"column:total_items;not null;default:0" json:"total_items"`
	TotalBytes  int64  `gorm:"column:total_bytes;not null;default:0" json:"total_bytes"`

	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContentPackage) TableName() string { return "content_package" }

// ExpiredAt reports whether a READY package should be treated as expired
// at the given instant. The demotion itself happens lazily at read time.
func (p *ContentPackage) ExpiredAt(now time.Time) bool {
	return p.State == PackageStateReady && p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}
