package admin

import "racefinder/internal/pkg/apperr"

var (
	ErrNotFound               = apperr.New(apperr.KindNotFound, "not_found", "administrator not found")
	ErrAlreadyExists          = apperr.New(apperr.KindConflict, "already_exists", "administrator already exists")
	ErrCannotRemoveSuperAdmin = apperr.New(apperr.KindAuthorization, "cannot_remove_super_admin", "super admin cannot be removed")
	ErrInvalidEmail           = apperr.New(apperr.KindInvalidInput, "invalid_email", "email is invalid")
	ErrInvalidRole            = apperr.New(apperr.KindInvalidInput, "invalid_role", "role must be admin or super_admin")
	ErrSuperAdminRequired     = apperr.New(apperr.KindAuthorization, "super_admin_required", "only a super admin can grant super admin")
)
