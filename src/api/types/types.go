package types

import "time"

// Complaint status vocabulary. Transitions append timeline rows; the five
// values below are the only legal states.
const (
	StatusSubmitted    = "submitted"
	StatusAcknowledged = "acknowledged"
	StatusInProgress   = "in_progress"
	StatusResolved     = "resolved"
	StatusRejected     = "rejected"
)

var ValidStatuses = map[string]bool{
	StatusSubmitted:    true,
	StatusAcknowledged: true,
	StatusInProgress:   true,
	StatusResolved:     true,
	StatusRejected:     true,
}

// Citizens
type Citizen struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Phone        string    `gorm:"size:16;uniqueIndex;not null" json:"phone"`
	Name         string    `gorm:"size:64" json:"name"`
	WardID       int       `gorm:"not null;default:1" json:"ward_id"` // registered residence ward
	Points       int       `gorm:"not null;default:0" json:"points"`
	Admin        bool      `gorm:"not null;default:false" json:"-"`
	PasswordHash string    `gorm:"size:80" json:"-"` // set for admin accounts only
	CreatedAt    time.Time `json:"created_at"`
}

// Wards (immutable reference data, seeded from the gazetteer)
type Ward struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;not null" json:"name"`
	Zone string `gorm:"size:32;not null" json:"zone"`
}

// Complaints
type Complaint struct {
	ID            uint64          `gorm:"primaryKey" json:"id"`
	CitizenID     uint64          `gorm:"index;not null" json:"citizen_id"`
	WardID        int             `gorm:"index;not null" json:"ward_id"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	PhotoURL      *string         `gorm:"size:255" json:"photo_url,omitempty"`
	Category      string          `gorm:"size:16;not null" json:"category"`
	AISuggestion  string          `gorm:"type:text" json:"ai_suggestion"`
	LocationText  string          `gorm:"size:255" json:"location_text"`
	Status        string          `gorm:"size:16;not null;default:submitted" json:"status"`
	PointsAwarded int             `gorm:"not null;default:0" json:"points_awarded"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Timeline      []TimelineEntry `gorm:"foreignKey:ComplaintID" json:"timeline,omitempty"`
}

// TimelineEntry rows are append-only; one per distinct status transition,
// including the initial insert. Written only by the data layer.
type TimelineEntry struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	ComplaintID uint64    `gorm:"index;not null" json:"complaint_id"`
	Status      string    `gorm:"size:16;not null" json:"status"`
	Actor       string    `gorm:"size:32;not null" json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
}

// WardMetric holds the pollution figures shown on a ward profile.
type WardMetric struct {
	WardID       int       `gorm:"primaryKey" json:"ward_id"`
	AQI          int       `json:"aqi"`
	WaterIndex   int       `json:"water_index"`
	NoiseLevelDB int       `json:"noise_level_db"`
	UpdatedAt    time.Time `json:"updated_at"`
}
