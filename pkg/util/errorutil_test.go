package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewConflict("duplicado", map[string]any{"username": "lperez"})
	mapped := ToDomainError(original)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	mapped := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", mapped.Code)
}

func TestToDomainErrorUnwrapsNested(t *testing.T) {
	inner := NewNotFound("ticket", map[string]any{"id": 4})
	mapped := ToDomainError(fmt.Errorf("service: %w", inner))
	require.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, 4, mapped.Details["id"])
}

func TestMissingFieldErrorNamesField(t *testing.T) {
	err := NewMissingFieldError("tercero_email")

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Message, "tercero_email")
	assert.Equal(t, "tercero_email", domainErr.Details["field"])
}
