package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racefinder/internal/config"
	"racefinder/internal/database/dbtest"
	"racefinder/internal/pkg/jwt/jwttest"
	"racefinder/internal/ratelimit"
)

const (
	rootEmail  = "root@racefinder.test"
	adminEmail = "ops@racefinder.test"
	otherEmail = "editor@racefinder.test"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type suite struct {
	t      *testing.T
	server *Server
}

func setup(t *testing.T) *suite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.Open(t, Models()...)
	cfg := &config.Config{
		AppEnv:           "test",
		LikeRateLimit:    10,
		LikeRateWindow:   time.Minute,
		SubmissionRPS:    100,
		SubmissionBurst:  100,
		RequestTimeout:   5 * time.Second,
		LastLoginTimeout: time.Second,
	}
	s := New(Deps{
		DB:      db,
		Config:  cfg,
		Keys:    jwttest.KeySet(),
		Limiter: ratelimit.NewMemoryLimiter(),
	})
	require.NoError(t, s.Bootstrap(context.Background(), rootEmail))
	return &suite{t: t, server: s}
}

func bearer(email string) string {
	return "Bearer " + jwttest.Token("uid-"+email, email, time.Hour)
}

func (s *suite) do(method, path, auth string, body any) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	s.server.Engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *suite) data(env envelope, into any) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(env.Data, into))
}

func (s *suite) addAdmin(by, email, role string) {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/admin/administrators", bearer(by), map[string]string{"email": email, "role": role})
	require.Equal(s.t, http.StatusCreated, code, env.Error)
}

func TestHealth(t *testing.T) {
	s := setup(t)
	w := httptest.NewRecorder()
	s.server.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProposalToDraftEvent(t *testing.T) {
	s := setup(t)

	code, env := s.do(http.MethodPost, "/api/v1/proposals", "", map[string]any{
		"title":      "City 10K",
		"event_date": "2026-10-04",
		"category":   "road",
		"distances":  []string{"10K"},
	})
	require.Equal(t, http.StatusCreated, code)
	var submitted struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.data(env, &submitted)
	assert.Equal(t, "pending", submitted.Status)

	code, env = s.do(http.MethodPost, "/api/v1/admin/proposals/"+submitted.ID+"/publish", bearer(rootEmail), nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "not_approved", env.Error.Code)

	code, _ = s.do(http.MethodPost, "/api/v1/admin/proposals/"+submitted.ID+"/review", bearer(rootEmail), map[string]string{"decision": "approved"})
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodPost, "/api/v1/admin/proposals/"+submitted.ID+"/publish", bearer(rootEmail), nil)
	require.Equal(t, http.StatusCreated, code)
	var published struct {
		EventID string `json:"event_id"`
		Created bool   `json:"created"`
		Event   struct {
			Title  string `json:"title"`
			Status string `json:"status"`
			Draft  bool   `json:"draft"`
		} `json:"event"`
	}
	s.data(env, &published)
	assert.True(t, published.Created)
	assert.Equal(t, "City 10K", published.Event.Title)
	assert.Equal(t, "draft", published.Event.Status)
	assert.True(t, published.Event.Draft)
	assert.NotEqual(t, submitted.ID, published.EventID)

	code, env = s.do(http.MethodPost, "/api/v1/admin/proposals/"+submitted.ID+"/publish", bearer(rootEmail), nil)
	require.Equal(t, http.StatusOK, code)
	var again struct {
		EventID string `json:"event_id"`
		Created bool   `json:"created"`
	}
	s.data(env, &again)
	assert.False(t, again.Created)
	assert.Equal(t, published.EventID, again.EventID)

	// drafts stay off the public calendar
	code, _ = s.do(http.MethodGet, "/api/v1/events/"+published.EventID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRemoveAdministrator(t *testing.T) {
	s := setup(t)
	s.addAdmin(rootEmail, adminEmail, "admin")
	s.addAdmin(rootEmail, otherEmail, "admin")

	code, env := s.do(http.MethodDelete, "/api/v1/admin/administrators/"+rootEmail, bearer(adminEmail), nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "cannot_remove_super_admin", env.Error.Code)

	code, _ = s.do(http.MethodDelete, "/api/v1/admin/administrators/"+otherEmail, bearer(adminEmail), nil)
	require.Equal(t, http.StatusOK, code)

	ok, err := s.server.Admins.IsAdmin(context.Background(), otherEmail)
	require.NoError(t, err)
	assert.False(t, ok)

	code, env = s.do(http.MethodGet, "/api/v1/admin/me", bearer(otherEmail), nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "admin_privileges_required", env.Error.Code)
}

func TestAdminEndpointWithoutToken(t *testing.T) {
	s := setup(t)

	code, env := s.do(http.MethodGet, "/api/v1/admin/proposals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "missing_header", env.Error.Code)

	code, env = s.do(http.MethodGet, "/api/v1/admin/proposals", "Bearer nonsense", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid_or_expired_token", env.Error.Code)

	code, env = s.do(http.MethodGet, "/api/v1/admin/proposals", bearer("runner@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "admin_privileges_required", env.Error.Code)
}

func TestLikeRateLimit(t *testing.T) {
	s := setup(t)

	code, env := s.do(http.MethodPost, "/api/v1/admin/events", bearer(rootEmail), map[string]any{
		"title":      "Night Trail",
		"event_date": "2026-11-14",
		"category":   "trail",
		"status":     "published",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var ev struct {
		ID string `json:"id"`
	}
	s.data(env, &ev)

	runner := bearer("runner@example.com")
	path := "/api/v1/events/" + ev.ID + "/like"

	var last struct {
		Liked      bool  `json:"liked"`
		TotalLikes int64 `json:"total_likes"`
	}
	for i := 1; i <= 10; i++ {
		code, env = s.do(http.MethodPost, path, runner, nil)
		require.Equal(t, http.StatusOK, code, "call %d", i)
		s.data(env, &last)
		assert.Equal(t, i%2 == 1, last.Liked)
	}
	assert.False(t, last.Liked)
	assert.Equal(t, int64(0), last.TotalLikes)

	code, env = s.do(http.MethodPost, path, runner, nil)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate_limited", env.Error.Code)

	code, env = s.do(http.MethodGet, path, runner, nil)
	require.Equal(t, http.StatusOK, code)
	s.data(env, &last)
	assert.False(t, last.Liked)
	assert.Equal(t, int64(0), last.TotalLikes)
}

func TestInteractionsRequireAuth(t *testing.T) {
	s := setup(t)

	code, _ := s.do(http.MethodGet, "/api/v1/me/interactions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodGet, "/api/v1/me/interactions", bearer("runner@example.com"), nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestUnknownRoute(t *testing.T) {
	s := setup(t)
	code, env := s.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", env.Error.Code)
}
