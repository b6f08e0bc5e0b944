package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"racefinder/internal/domain/authz"
	"racefinder/internal/pkg/jwt"
	"racefinder/internal/pkg/response"
)

const (
	ctxSubject = "subject"
	ctxUserID  = "user_id"
	ctxEmail   = "email"
)

func RequireAuth(gate *authz.Gate) gin.HandlerFunc {
	return guard(gate.RequireAuthenticated)
}

func RequireAdmin(gate *authz.Gate) gin.HandlerFunc {
	return guard(gate.RequireAdmin)
}

func guard(check func(ctx context.Context, header string) authz.Result) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := check(c.Request.Context(), c.GetHeader("Authorization"))
		if !res.OK() {
			response.Abort(c, res.Status, res.Reason, http.StatusText(res.Status))
			return
		}

		c.Set(ctxSubject, res.Subject)
		c.Set(ctxUserID, res.Subject.UID)
		c.Set(ctxEmail, res.Subject.Email)
		c.Next()
	}
}

// SubjectFrom returns the verified subject set by RequireAuth or RequireAdmin.
func SubjectFrom(c *gin.Context) (*jwt.Subject, bool) {
	v, ok := c.Get(ctxSubject)
	if !ok {
		return nil, false
	}
	s, ok := v.(*jwt.Subject)
	return s, ok
}
