package proposal

import "racefinder/internal/domain/event"

type SubmitRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	EventDate       string   `json:"event_date" validate:"required,datetime=2006-01-02"`
	Municipality    string   `json:"municipality" validate:"max=120"`
	Department      string   `json:"department" validate:"max=120"`
	Organizer       string   `json:"organizer" validate:"max=200"`
	Website         string   `json:"website" validate:"omitempty,url,max=1024"`
	Description     string   `json:"description" validate:"max=5000"`
	Distances       []string `json:"distances" validate:"max=20,dive,required,max=40"`
	RegistrationFee string   `json:"registration_fee" validate:"max=100"`
	Category        string   `json:"category" validate:"max=60"`
	AltitudeMeters  *int     `json:"altitude_meters" validate:"omitempty,min=-500,max=9000"`
	SubmitterName   string   `json:"submitter_name" validate:"max=200"`
	SubmitterEmail  string   `json:"submitter_email" validate:"max=320"`
}

type ReviewRequest struct {
	Decision Status `json:"decision" binding:"required"`
	Reason   string `json:"reason" validate:"max=1000"`
}

type PublishResponse struct {
	EventID string       `json:"event_id"`
	Created bool         `json:"created"`
	Event   *event.Event `json:"event"`
}
