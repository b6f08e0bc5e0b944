package event

import "racefinder/internal/pkg/apperr"

var (
	ErrNotFound      = apperr.New(apperr.KindNotFound, "not_found", "event not found")
	ErrInvalidStatus = apperr.New(apperr.KindInvalidInput, "invalid_status", "status must be draft, published or cancelled")
	ErrInvalidID     = apperr.New(apperr.KindInvalidInput, "invalid_event_id", "event id is malformed")
	ErrEmptyUpdate   = apperr.New(apperr.KindInvalidInput, "empty_update", "update changes nothing")
)
