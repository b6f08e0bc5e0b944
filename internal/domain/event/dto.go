package event

const dateLayout = "2006-01-02"

type CreateRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	EventDate       string   `json:"event_date" validate:"required,datetime=2006-01-02"`
	Municipality    string   `json:"municipality" validate:"max=120"`
	Department      string   `json:"department" validate:"max=120"`
	Organizer       string   `json:"organizer" validate:"max=200"`
	Category        string   `json:"category" validate:"max=60"`
	Status          Status   `json:"status"`
	Distances       []string `json:"distances" validate:"max=20,dive,required,max=40"`
	RegistrationFee string   `json:"registration_fee" validate:"max=100"`
	Website         string   `json:"website" validate:"omitempty,url,max=1024"`
	Description     string   `json:"description" validate:"max=10000"`
	CoverImageURL   string   `json:"cover_image_url" validate:"omitempty,url,max=1024"`
	AltitudeMeters  *int     `json:"altitude_meters" validate:"omitempty,min=-500,max=9000"`
}

type UpdateRequest struct {
	Title           *string   `json:"title" validate:"omitempty,min=1,max=200"`
	EventDate       *string   `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
	Municipality    *string   `json:"municipality" validate:"omitempty,max=120"`
	Department      *string   `json:"department" validate:"omitempty,max=120"`
	Organizer       *string   `json:"organizer" validate:"omitempty,max=200"`
	Category        *string   `json:"category" validate:"omitempty,max=60"`
	Distances       *[]string `json:"distances" validate:"omitempty,max=20,dive,required,max=40"`
	RegistrationFee *string   `json:"registration_fee" validate:"omitempty,max=100"`
	Website         *string   `json:"website" validate:"omitempty,url,max=1024"`
	Description     *string   `json:"description" validate:"omitempty,max=10000"`
	CoverImageURL   *string   `json:"cover_image_url" validate:"omitempty,url,max=1024"`
	AltitudeMeters  *int      `json:"altitude_meters" validate:"omitempty,min=-500,max=9000"`
}

type StatusRequest struct {
	Status Status `json:"status" binding:"required"`
}
