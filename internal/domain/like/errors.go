package like

import "racefinder/internal/pkg/apperr"

var (
	ErrInvalidEventID = apperr.New(apperr.KindInvalidInput, "invalid_event_id", "event id is malformed")
	ErrInvalidUserID  = apperr.New(apperr.KindInvalidInput, "invalid_user_id", "user id is malformed")
	ErrRateLimited    = apperr.New(apperr.KindRateLimited, "rate_limited", "too many like toggles, try again shortly")
	ErrEventNotFound  = apperr.New(apperr.KindNotFound, "not_found", "event not found")
)
