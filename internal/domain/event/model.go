package event

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled:
		return true
	}
	return false
}

// DefaultAltitudeMeters is used when neither the admin nor the proposal gives one.
const DefaultAltitudeMeters = 0

// Event is a publicly listable race. Status is the only stored lifecycle
// field; Draft is a read-only projection of it.
type Event struct {
	ID               string                      `json:"id" gorm:"primaryKey;size:128"`
	Title            string                      `json:"title" gorm:"size:200;not null"`
	EventDate        time.Time                   `json:"event_date" gorm:"not null;index"`
	Municipality     string                      `json:"municipality" gorm:"size:120"`
	Department       string                      `json:"department" gorm:"size:120"`
	Organizer        string                      `json:"organizer" gorm:"size:200"`
	Category         string                      `json:"category" gorm:"size:60;index"`
	Status           Status                      `json:"status" gorm:"size:16;not null;index"`
	Draft            bool                        `json:"draft" gorm:"-"`
	Distances        datatypes.JSONSlice[string] `json:"distances"`
	RegistrationFee  string                      `json:"registration_fee,omitempty" gorm:"size:100"`
	Website          string                      `json:"website,omitempty" gorm:"size:1024"`
	Description      string                      `json:"description,omitempty" gorm:"type:text"`
	CoverImageURL    string                      `json:"cover_image_url,omitempty" gorm:"size:1024"`
	AltitudeMeters   int                         `json:"altitude_meters"`
	LikesCount       int64                       `json:"likes_count" gorm:"not null;default:0"`
	SourceProposalID *string                     `json:"source_proposal_id,omitempty" gorm:"size:36;uniqueIndex"`
	CreatedBy        string                      `json:"created_by" gorm:"size:320"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) project() {
	e.Draft = e.Status == StatusDraft
}

func (e *Event) AfterFind(*gorm.DB) error {
	e.project()
	return nil
}

func (e *Event) AfterSave(*gorm.DB) error {
	e.project()
	return nil
}
