package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStorageWrapsForeignErrors(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage(cause)

	assert.Equal(t, KindStorage, KindOf(err))
	assert.Equal(t, "storage_error", CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Storage(nil))
}

func TestStorageKeepsDomainErrors(t *testing.T) {
	notFound := New(KindNotFound, "not_found", "event not found")
	wrapped := fmt.Errorf("load: %w", notFound)

	assert.Same(t, wrapped, Storage(wrapped))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindAuthentication: http.StatusUnauthorized,
		KindAuthorization:  http.StatusForbidden,
		KindNotFound:       http.StatusNotFound,
		KindInvalidState:   http.StatusConflict,
		KindInvalidInput:   http.StatusBadRequest,
		KindRateLimited:    http.StatusTooManyRequests,
		KindStorage:        http.StatusServiceUnavailable,
		KindConflict:       http.StatusConflict,
		KindInternal:       http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(kind), string(kind))
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: administrators.email")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
}
