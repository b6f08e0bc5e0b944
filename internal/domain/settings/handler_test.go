package settings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_PatchAndGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(t))

	r := gin.New()
	admin := r.Group("/admin", func(c *gin.Context) {
		c.Set("email", "ops@example.com")
		c.Next()
	})
	h.RegisterAdminRoutes(admin)

	body := bytes.NewBufferString(`{"require_approval":false,"like_rate_window_seconds":120}`)
	req := httptest.NewRequest(http.MethodPatch, "/admin/settings", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/settings", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    SystemSettings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Data.RequireApproval)
	assert.Equal(t, 120, resp.Data.LikeRateWindowSeconds)
	assert.Equal(t, "ops@example.com", resp.Data.UpdatedBy)

	req = httptest.NewRequest(http.MethodPatch, "/admin/settings", bytes.NewBufferString(`{"like_rate_limit":-3}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
