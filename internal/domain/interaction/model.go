package interaction

import "time"

const Table = "user_event_interactions"

// Interaction is a user's private record about one event. It is written as a
// whole on every save; the last write wins.
type Interaction struct {
	UserID        string     `json:"user_id" gorm:"primaryKey;size:128"`
	EventID       string     `json:"event_id" gorm:"primaryKey;size:128;index"`
	Liked         bool       `json:"liked" gorm:"not null"`
	Attended      bool       `json:"attended" gorm:"not null"`
	Interested    bool       `json:"interested" gorm:"not null"`
	Rating        *int       `json:"rating,omitempty"`
	Notes         string     `json:"notes,omitempty" gorm:"type:text"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Interaction) TableName() string {
	return Table
}

type SaveRequest struct {
	Liked         bool    `json:"liked"`
	Attended      bool    `json:"attended"`
	Interested    bool    `json:"interested"`
	Rating        *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Notes         string  `json:"notes" validate:"max=2000"`
	CompletedDate *string `json:"completed_date" validate:"omitempty,datetime=2006-01-02"`
}
