package auth_api_test

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
	"ms-eventplatform/internal/auth/auth_api"
	"ms-eventplatform/internal/config"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
	"ms-eventplatform/internal/storage/storagetest"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var authCfg = config.AuthConfig{Secret: "account-test-secret", Algorithm: "HS256", TokenTTL: time.Hour}

type fixture struct {
	router http.Handler
	users  *storage.Table[models.User]
	audits *storage.Table[models.AuditLog]
}

func setup(t *testing.T) fixture {
	db := storagetest.NewDB(t)
	log := logger.NewNop()

	users := storage.NewTable[models.User](db)
	audits := storage.NewTable[models.AuditLog](db)
	svc := auth.NewAccountService(users, audit.NewAuditService(audits, log), nil, authCfg, log)
	svc.HashCost = bcrypt.MinCost

	r := chi.NewRouter()
	r.Route("/api/auth", auth_api.NewHandler(svc, validation.New(), log).RegisterRoutes)
	return fixture{router: r, users: users, audits: audits}
}

func (f fixture) do(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f fixture) actions(t *testing.T) []string {
	logs, err := f.audits.List(context.Background(), 0, 10)
	require.NoError(t, err)
	out := make([]string, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.Action)
	}
	return out
}

const graceBody = `{"name":"Grace","email":"Grace@Example.com","password":"hopper-1906","user_type":"organizer","organization_name":"Navy"}`

func TestRegisterReturnsUsableToken(t *testing.T) {
	f := setup(t)

	rec := f.do("/api/auth/register", graceBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "grace@example.com", resp.Email)
	assert.Equal(t, models.UserTypeOrganizer, resp.UserType)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.NotContains(t, rec.Body.String(), "hopper-1906")

	gate, err := auth.NewGate(authCfg, nil, logger.NewNop())
	require.NoError(t, err)
	claims, err := gate.Verify(context.Background(), resp.Token)
	require.NoError(t, err)
	id, ok := auth.SubjectID(claims)
	require.True(t, ok)
	assert.Equal(t, resp.UserID, id)
	assert.Equal(t, "organizer", auth.RoleOf(claims))

	stored, err := f.users.GetByID(context.Background(), resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, stored.Status)
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "hopper-1906", *stored.PasswordHash)
	assert.Equal(t, []string{"user.register"}, f.actions(t))
}

func TestRegisterDuplicateEmailIgnoresCase(t *testing.T) {
	f := setup(t)

	require.Equal(t, http.StatusCreated, f.do("/api/auth/register", graceBody).Code)
	rec := f.do("/api/auth/register", strings.Replace(graceBody, "Grace@Example.com", "GRACE@EXAMPLE.COM", 1))
	assert.Equal(t, http.StatusConflict, rec.Code)

	n, err := f.users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegisterValidation(t *testing.T) {
	f := setup(t)

	tests := map[string]string{
		"short password": `{"name":"A","email":"a@x.io","password":"short","user_type":"buyer"}`,
		"admin type":     `{"name":"A","email":"a@x.io","password":"long-enough","user_type":"admin"}`,
		"bad email":      `{"name":"A","email":"nope","password":"long-enough","user_type":"buyer"}`,
		"missing name":   `{"email":"a@x.io","password":"long-enough","user_type":"buyer"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnprocessableEntity, f.do("/api/auth/register", body).Code)
		})
	}
}

func TestLoginSetsLastLogin(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusCreated, f.do("/api/auth/register", graceBody).Code)

	rec := f.do("/api/auth/login", `{"email":"grace@EXAMPLE.com","password":"hopper-1906"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	stored, err := f.users.GetByID(context.Background(), resp.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
	assert.WithinDuration(t, time.Now(), *stored.LastLogin, time.Minute)
	assert.Equal(t, []string{"user.register", "user.login"}, f.actions(t))
}

func TestLoginRejections(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusCreated, f.do("/api/auth/register", graceBody).Code)
	require.NoError(t, f.users.Create(context.Background(), &models.User{
		Name: "No Password", Email: "nopass@example.com", UserType: models.UserTypeBuyer, Status: models.UserStatusActive,
	}))

	tests := map[string]string{
		"wrong password": `{"email":"grace@example.com","password":"not-her-password"}`,
		"unknown email":  `{"email":"nobody@example.com","password":"hopper-1906"}`,
		"no password":    `{"email":"nopass@example.com","password":"hopper-1906"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := f.do("/api/auth/login", body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid email or password")
		})
	}
	assert.Equal(t, []string{"user.register"}, f.actions(t))
}

func TestLoginRefusesSuspendedAccount(t *testing.T) {
	f := setup(t)
	rec := f.do("/api/auth/register", graceBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	suspended := string(models.UserStatusSuspended)
	_, err := f.users.Update(context.Background(), resp.UserID, models.UserUpdate{Status: &suspended})
	require.NoError(t, err)

	rec = f.do("/api/auth/login", `{"email":"grace@example.com","password":"hopper-1906"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "suspended")

	stored, err := f.users.GetByID(context.Background(), resp.UserID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastLogin)
}
