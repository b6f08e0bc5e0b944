// Package authz composes bearer verification and the administrator registry
// into the two request guards used by every mutating endpoint.
package authz

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"racefinder/internal/pkg/apperr"
	"racefinder/internal/pkg/jwt"
)

const ReasonAdminRequired = "admin_privileges_required"

type Verifier interface {
	VerifyHeader(ctx context.Context, header string) (*jwt.Subject, error)
}

type Registry interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, email string)
}

// Result is the outcome of a guard. Status is 200 on success, otherwise the
// HTTP status to reply with and a short machine-readable Reason.
type Result struct {
	Status  int
	Reason  string
	Subject *jwt.Subject
}

func (r Result) OK() bool {
	return r.Status == http.StatusOK
}

type Gate struct {
	verifier         Verifier
	registry         Registry
	lastLoginTimeout time.Duration

	// stamped is signalled after each asynchronous last-login write, for tests.
	stamped func(email string)
}

func NewGate(verifier Verifier, registry Registry, lastLoginTimeout time.Duration) *Gate {
	if lastLoginTimeout <= 0 {
		lastLoginTimeout = 5 * time.Second
	}
	return &Gate{
		verifier:         verifier,
		registry:         registry,
		lastLoginTimeout: lastLoginTimeout,
	}
}

func (g *Gate) RequireAuthenticated(ctx context.Context, header string) Result {
	subject, err := g.verifier.VerifyHeader(ctx, header)
	if err != nil {
		status := apperr.HTTPStatus(apperr.KindOf(err))
		if status != http.StatusServiceUnavailable {
			status = http.StatusUnauthorized
		}
		return Result{Status: status, Reason: apperr.CodeOf(err)}
	}
	return Result{Status: http.StatusOK, Subject: subject}
}

func (g *Gate) RequireAdmin(ctx context.Context, header string) Result {
	res := g.RequireAuthenticated(ctx, header)
	if !res.OK() {
		return res
	}

	ok, err := g.registry.IsAdmin(ctx, res.Subject.Email)
	if err != nil {
		log.WithError(err).WithField("uid", res.Subject.UID).Error("admin check failed")
		return Result{Status: http.StatusForbidden, Reason: ReasonAdminRequired}
	}
	if !ok {
		return Result{Status: http.StatusForbidden, Reason: ReasonAdminRequired}
	}

	g.stampLastLogin(ctx, res.Subject.Email)
	return res
}

// stampLastLogin writes on a context detached from the request, bounded by
// lastLoginTimeout.
func (g *Gate) stampLastLogin(ctx context.Context, email string) {
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.lastLoginTimeout)
	go func() {
		defer cancel()
		g.registry.UpdateLastLogin(bg, email)
		if g.stamped != nil {
			g.stamped(email)
		}
	}()
}
