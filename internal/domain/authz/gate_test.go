package authz

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racefinder/internal/pkg/apperr"
	"racefinder/internal/pkg/jwt"
	"racefinder/internal/pkg/jwt/jwttest"
)

type fakeRegistry struct {
	mu      sync.Mutex
	admins  map[string]bool
	err     error
	stamped []string
	block   chan struct{}
}

func (f *fakeRegistry) IsAdmin(_ context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.admins[email], nil
}

func (f *fakeRegistry) UpdateLastLogin(ctx context.Context, email string) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stamped = append(f.stamped, email)
}

func (f *fakeRegistry) stampedEmails() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stamped...)
}

func newGate(reg *fakeRegistry) *Gate {
	return NewGate(jwt.NewVerifier(jwttest.KeySet(), jwt.Options{}), reg, time.Second)
}

func bearer(email string) string {
	return "Bearer " + jwttest.Token("uid-"+email, email, time.Hour)
}

func TestRequireAuthenticated(t *testing.T) {
	g := newGate(&fakeRegistry{})
	ctx := context.Background()

	res := g.RequireAuthenticated(ctx, "")
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "missing_header", res.Reason)
	assert.False(t, res.OK())

	res = g.RequireAuthenticated(ctx, "Bearer junk")
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "invalid_or_expired_token", res.Reason)

	res = g.RequireAuthenticated(ctx, bearer("runner@racefinder.test"))
	require.True(t, res.OK())
	assert.Equal(t, "runner@racefinder.test", res.Subject.Email)
	assert.Empty(t, res.Reason)
}

func TestRequireAdmin_UnauthenticatedIs401Not403(t *testing.T) {
	g := newGate(&fakeRegistry{admins: map[string]bool{}})

	res := g.RequireAdmin(context.Background(), "")
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "missing_header", res.Reason)
}

func TestRequireAdmin_NonAdminForbidden(t *testing.T) {
	reg := &fakeRegistry{admins: map[string]bool{}}
	g := newGate(reg)

	res := g.RequireAdmin(context.Background(), bearer("runner@racefinder.test"))
	assert.Equal(t, http.StatusForbidden, res.Status)
	assert.Equal(t, ReasonAdminRequired, res.Reason)
	assert.Nil(t, res.Subject)
	assert.Empty(t, reg.stampedEmails())
}

func TestRequireAdmin_RegistryErrorIsGeneric403(t *testing.T) {
	reg := &fakeRegistry{err: apperr.Storage(errors.New("db down"))}
	g := newGate(reg)

	res := g.RequireAdmin(context.Background(), bearer("ops@racefinder.test"))
	assert.Equal(t, http.StatusForbidden, res.Status)
	assert.Equal(t, ReasonAdminRequired, res.Reason)
}

func TestRequireAdmin_StampsLastLoginAsync(t *testing.T) {
	reg := &fakeRegistry{
		admins: map[string]bool{"ops@racefinder.test": true},
		block:  make(chan struct{}),
	}
	g := newGate(reg)

	ctx, cancel := context.WithCancel(context.Background())
	res := g.RequireAdmin(ctx, bearer("ops@racefinder.test"))
	require.True(t, res.OK())

	// the guard returned while the stamp is still blocked, and cancelling the
	// request does not abort it
	cancel()
	assert.Empty(t, reg.stampedEmails())
	close(reg.block)

	assert.Eventually(t, func() bool {
		return len(reg.stampedEmails()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestRequireAdmin_StampTimeoutBounded(t *testing.T) {
	reg := &fakeRegistry{
		admins: map[string]bool{"ops@racefinder.test": true},
		block:  make(chan struct{}),
	}
	g := NewGate(jwt.NewVerifier(jwttest.KeySet(), jwt.Options{}), reg, 20*time.Millisecond)
	done := make(chan string, 1)
	g.stamped = func(email string) { done <- email }

	res := g.RequireAdmin(context.Background(), bearer("ops@racefinder.test"))
	require.True(t, res.OK())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("last login stamp did not give up after its timeout")
	}
	assert.Empty(t, reg.stampedEmails())
}
