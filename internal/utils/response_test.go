package utils_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, utils.StatusFor(apperr.KindValidation))
	assert.Equal(t, http.StatusNotFound, utils.StatusFor(apperr.KindNotFound))
	assert.Equal(t, http.StatusConflict, utils.StatusFor(apperr.KindConflict))
	assert.Equal(t, http.StatusUnauthorized, utils.StatusFor(apperr.KindUnauthenticated))
	assert.Equal(t, http.StatusForbidden, utils.StatusFor(apperr.KindForbidden))
	assert.Equal(t, http.StatusInternalServerError, utils.StatusFor(apperr.KindUnexpected))
}

func writeError(t *testing.T, err error) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/things/1", nil)
	utils.WriteError(rr, req, logger.NewNop(), err)

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func TestWriteErrorUsesTaxonomyMessage(t *testing.T) {
	err := fmt.Errorf("create user: %w", apperr.Conflict(nil, "user with this email already exists"))
	rr, body := writeError(t, err)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "user with this email already exists", body.Message)
	assert.Equal(t, "conflict", body.Error)
}

func TestWriteErrorCarriesValidationFields(t *testing.T) {
	rr, body := writeError(t, apperr.Validation(map[string]string{"capacity": "is required"}))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "is required", body.Fields["capacity"])
}

func TestWriteErrorHidesUnexpectedDetail(t *testing.T) {
	rr, body := writeError(t, errors.New("pq: password authentication failed for user admin"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestWriteErrorUnauthenticatedSetsChallenge(t *testing.T) {
	rr, _ := writeError(t, apperr.Unauthenticated("missing bearer token"))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}

func TestWriteJSONUnencodableValueIs500(t *testing.T) {
	rr := httptest.NewRecorder()
	utils.WriteJSON(rr, http.StatusOK, map[string]interface{}{"ch": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "encode_error", body.Error)
}

func TestWriteJSONEncodesValue(t *testing.T) {
	rr := httptest.NewRecorder()
	utils.WriteJSON(rr, http.StatusCreated, map[string]int{"id": 3})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":3}`, rr.Body.String())
}
