package settings

import "racefinder/internal/pkg/apperr"

var (
	ErrInvalidPatch = apperr.New(apperr.KindInvalidInput, "invalid_settings", "settings patch is invalid")
	ErrEmptyPatch   = apperr.New(apperr.KindInvalidInput, "empty_patch", "settings patch changes nothing")
)
