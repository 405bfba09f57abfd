package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeQuantityOutOfRange, status: http.StatusBadRequest, publicMsg: "quantity out of range", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		assert.Equal(t, tt.status, meta.HTTPStatus, "code %s", tt.code)
		assert.Equal(t, tt.publicMsg, meta.PublicMessage, "code %s", tt.code)
		assert.Equal(t, tt.retryable, meta.Retryable, "code %s", tt.code)
		assert.Equal(t, tt.detailsOK, meta.DetailsAllowed, "code %s", tt.code)
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing street")
	assert.Equal(t, CodeValidation, base.Code())
	assert.Equal(t, "missing street", base.Message())
	assert.Nil(t, base.Details())
	assert.Equal(t, "VALIDATION_ERROR: missing street", base.Error())

	withDetails := base.WithDetails(map[string]string{"street": "required"})
	assert.Equal(t, map[string]string{"street": "required"}, withDetails.Details())

	cause := stdErrors.New("connection refused")
	wrapped := Wrap(CodeDependency, cause, "submit order")
	assert.True(t, stdErrors.Is(wrapped, cause))
	assert.True(t, wrapped.Retryable())

	assert.Equal(t, CodeNotFound, Wrap(CodeNotFound, nil, "meal").Code())
}

func TestNilErrorAccessors(t *testing.T) {
	var e *Error
	assert.Equal(t, CodeInternal, e.Code())
	assert.Empty(t, e.Message())
	assert.Nil(t, e.Details())
	assert.Nil(t, e.WithDetails("x"))
	assert.Nil(t, e.Unwrap())
}

func TestAsAndIsCode(t *testing.T) {
	inner := New(CodeQuantityOutOfRange, "too many")
	outer := fmt.Errorf("add meal: %w", inner)

	typed := As(outer)
	require.NotNil(t, typed)
	assert.Equal(t, CodeQuantityOutOfRange, typed.Code())
	assert.True(t, IsCode(outer, CodeQuantityOutOfRange))
	assert.False(t, IsCode(outer, CodeValidation))
	assert.Nil(t, As(stdErrors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestIsUserFacing(t *testing.T) {
	assert.True(t, IsUserFacing(New(CodeValidation, "x")))
	assert.True(t, IsUserFacing(New(CodeQuantityOutOfRange, "x")))
	assert.True(t, IsUserFacing(New(CodeDependency, "x")))
	assert.False(t, IsUserFacing(New(CodeStateConflict, "x")))
	assert.False(t, IsUserFacing(stdErrors.New("plain")))
}

func TestDumpIncludesChainAndPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P01", TableName: "catalog_meals", Message: "relation does not exist"}
	err := Wrap(CodeDependency, fmt.Errorf("query meals: %w", pgErr), "load catalog")

	d := Dump(err)
	assert.Equal(t, CodeDependency, d.Code)
	assert.Equal(t, "42P01", d.PGCode)
	assert.Equal(t, "catalog_meals", d.PGTable)
	assert.Len(t, d.Chain, 3)

	assert.Equal(t, ErrorDump{}, Dump(nil))
}
