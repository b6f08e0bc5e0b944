package proposal

import (
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ReviewerSystem marks proposals approved automatically because the site
// does not require approval.
const ReviewerSystem = "system"

const DefaultRejectionReason = "unspecified"

// Proposal is a publicly submitted candidate race. Once PublishedEventID is
// set it is a historical record and no longer changes.
type Proposal struct {
	ID              string                      `json:"id" gorm:"primaryKey;size:36"`
	Title           string                      `json:"title" gorm:"size:200;not null"`
	EventDate       time.Time                   `json:"event_date" gorm:"not null"`
	Municipality    string                      `json:"municipality" gorm:"size:120"`
	Department      string                      `json:"department" gorm:"size:120"`
	Organizer       string                      `json:"organizer" gorm:"size:200"`
	Website         string                      `json:"website,omitempty" gorm:"size:1024"`
	Description     string                      `json:"description,omitempty" gorm:"type:text"`
	Distances       datatypes.JSONSlice[string] `json:"distances"`
	RegistrationFee string                      `json:"registration_fee,omitempty" gorm:"size:100"`
	Category        string                      `json:"category" gorm:"size:60"`
	AltitudeMeters  *int                        `json:"altitude_meters,omitempty"`

	Status         Status `json:"status" gorm:"size:16;not null;index"`
	SubmitterName  string `json:"submitter_name,omitempty" gorm:"size:200"`
	SubmitterEmail string `json:"submitter_email,omitempty" gorm:"size:320"`
	SubmitterIP    string `json:"-" gorm:"size:64"`

	ReviewedBy      string     `json:"reviewed_by,omitempty" gorm:"size:320"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty" gorm:"size:1000"`

	PublishedEventID *string    `json:"published_event_id,omitempty" gorm:"size:128;uniqueIndex"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	PublishedBy      string     `json:"published_by,omitempty" gorm:"size:320"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Proposal) TableName() string {
	return "proposals"
}

func (p *Proposal) IsPublished() bool {
	return p.PublishedEventID != nil
}
