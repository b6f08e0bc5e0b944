package like

import "time"

// Table is the physical table name, exported so event deletion can cascade to it.
const Table = "event_likes"

// Record is one user's like of one event. The (user, event) pair is the key.
type Record struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;size:128"`
	EventID   string    `json:"event_id" gorm:"primaryKey;size:128;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Record) TableName() string {
	return Table
}

type Result struct {
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"total_likes"`
}

// Drift is an event whose stored counter disagreed with its like records.
type Drift struct {
	EventID string `json:"event_id"`
	Stored  int64  `json:"stored"`
	Actual  int64  `json:"actual"`
}
