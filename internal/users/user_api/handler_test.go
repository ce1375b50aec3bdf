package user_api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ms-eventplatform/internal/audit"
	"ms-eventplatform/internal/auth"
	"ms-eventplatform/internal/config"
	"ms-eventplatform/internal/kafka"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
	"ms-eventplatform/internal/storage/storagetest"
	"ms-eventplatform/internal/users"
	"ms-eventplatform/internal/users/user_api"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authCfg = config.AuthConfig{Secret: "user-api-secret", Algorithm: "HS256"}

type fixture struct {
	router http.Handler
	db     *storage.DB
}

func setup(t *testing.T) fixture {
	db := storagetest.NewDB(t)
	log := logger.NewNop()

	auditSvc := audit.NewAuditService(storage.NewTable[models.AuditLog](db), log)
	svc := users.NewUserService(storage.NewTable[models.User](db), auditSvc, kafka.LogPublisher{Logger: log}, log)
	h := user_api.NewHandler(svc, validation.New(), log)

	r := chi.NewRouter()
	r.Route("/api/users", h.RegisterRoutes)
	return fixture{router: r, db: db}
}

func (f fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const adaBody = `{"name":"Ada","email":"ada@example.com","user_type":"organizer"}`

func TestCreateThenDuplicateEmail(t *testing.T) {
	f := setup(t)

	rec := f.do(http.MethodPost, "/api/users", adaBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "ada@example.com", created["email"])
	assert.Equal(t, "active", created["status"])
	assert.NotZero(t, created["id"])

	rec = f.do(http.MethodPost, "/api/users", adaBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "conflict", body["error"])
	assert.Equal(t, false, body["success"])

	n, err := storage.NewTable[models.User](f.db).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	logs, err := storage.NewTable[models.AuditLog](f.db).List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "user.create", logs[0].Action)
}

func TestCreateInvalidPayloadIs422WithFields(t *testing.T) {
	f := setup(t)

	rec := f.do(http.MethodPost, "/api/users", `{"name":"","email":"nope","user_type":"wizard"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields, ok := decode(t, rec)["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "user_type")
	assert.Contains(t, fields, "name")
}

func TestGetUpdateDeleteLifecycle(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/users", adaBody).Code)

	rec := f.do(http.MethodPut, "/api/users/1", `{"status":"suspended"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(t, rec)
	assert.Equal(t, "suspended", updated["status"])
	assert.Equal(t, "Ada", updated["name"])

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/users/1", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/api/users/1", "").Code)

	rec = f.do(http.MethodGet, "/api/users/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found", decode(t, rec)["message"])
}

func TestListEmptyIsEmptyArray(t *testing.T) {
	f := setup(t)

	rec := f.do(http.MethodGet, "/api/users", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDuplicateEmailIgnoresCase(t *testing.T) {
	f := setup(t)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/users", `{"name":"A","email":"a@x.io","user_type":"buyer"}`).Code)
	rec := f.do(http.MethodPost, "/api/users", `{"name":"B","email":"A@X.IO","user_type":"buyer"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStatistics(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/users", adaBody).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/users", `{"name":"B","email":"b@x.io","user_type":"buyer","status":"suspended"}`).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/users", `{"name":"C","email":"c@x.io","user_type":"buyer","status":"inactive"}`).Code)

	rec := f.do(http.MethodGet, "/api/users/statistics", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"total":3,"active":1,"suspended":1}`, rec.Body.String())
}

func TestAdminOnlyRoutes(t *testing.T) {
	db := storagetest.NewDB(t)
	log := logger.NewNop()
	gate, err := auth.NewGate(authCfg, nil, log)
	require.NoError(t, err)

	svc := users.NewUserService(storage.NewTable[models.User](db), nil, nil, log)
	h := user_api.NewHandler(svc, validation.New(), log)
	h.AdminOnly = gate.RequireRole("admin")

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(gate.Middleware())
		r.Route("/api/users", h.RegisterRoutes)
	})

	send := func(method, path, body string, claims map[string]interface{}) int {
		token, err := auth.IssueToken(authCfg, "1", claims, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}
	buyer := map[string]interface{}{"user_type": "buyer"}
	admin := map[string]interface{}{"user_type": "admin"}

	require.Equal(t, http.StatusOK, send(http.MethodPost, "/api/users", adaBody, buyer))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/api/users/1", "", buyer))

	assert.Equal(t, http.StatusForbidden, send(http.MethodGet, "/api/users", "", buyer))
	assert.Equal(t, http.StatusForbidden, send(http.MethodGet, "/api/users/statistics", "", buyer))
	assert.Equal(t, http.StatusForbidden, send(http.MethodDelete, "/api/users/1", "", buyer))

	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/api/users", "", admin))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/api/users/statistics", "", admin))
	assert.Equal(t, http.StatusNoContent, send(http.MethodDelete, "/api/users/1", "", admin))
}

func TestBadPathIDIs422(t *testing.T) {
	f := setup(t)
	assert.Equal(t, http.StatusUnprocessableEntity, f.do(http.MethodGet, "/api/users/abc", "").Code)
}
