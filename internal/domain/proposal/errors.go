package proposal

import "racefinder/internal/pkg/apperr"

var (
	ErrNotFound         = apperr.New(apperr.KindNotFound, "not_found", "proposal not found")
	ErrInvalidID        = apperr.New(apperr.KindInvalidInput, "invalid_proposal_id", "proposal id is malformed")
	ErrInvalidDecision  = apperr.New(apperr.KindInvalidInput, "invalid_decision", "decision must be approved or rejected")
	ErrInvalidStatus    = apperr.New(apperr.KindInvalidInput, "invalid_status", "status must be pending, approved or rejected")
	ErrNotApproved      = apperr.New(apperr.KindInvalidState, "not_approved", "only approved proposals can be published")
	ErrAlreadyPublished = apperr.New(apperr.KindInvalidState, "already_published", "proposal was already published")
)
