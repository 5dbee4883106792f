package content

import (
	"time"

	"github.com/google/uuid"
)

// ManifestItem is one distributable (version, locale) pair inside a bulk
// manifest. ContentURL is time-limited; Checksum is "algorithm:hex".
type ManifestItem struct {
	VersionID     uuid.UUID  `json:"version_id"`
	ObjectID      uuid.UUID  `json:"object_id"`
	ContentKey    string     `json:"content_key"`
	Checksum      string     `json:"checksum"`
	ContentURL    string     `json:"content_url"`
	SizeBytes     int64      `json:"size_bytes"`
	Subject       string     `json:"subject"`
	GradeBand     string     `json:"grade_band"`
	VersionNumber int        `json:"version_number"`
	Locale        string     `json:"locale"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Manifest is a complete point-in-time listing of distributable content
// for one package filter.
type Manifest struct {
	PackageID   uuid.UUID      `json:"package_id"`
	TenantID    uuid.UUID      `json:"tenant_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Items       []ManifestItem `json:"items"`
	TotalItems  int            `json:"total_items"`
	TotalBytes  int64          `json:"total_bytes"`
}
