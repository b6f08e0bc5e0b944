package interaction

import "racefinder/internal/pkg/apperr"

var (
	ErrNotFound       = apperr.New(apperr.KindNotFound, "not_found", "interaction not found")
	ErrInvalidEventID = apperr.New(apperr.KindInvalidInput, "invalid_event_id", "event id is malformed")
)
