package tests

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"upwatch/internal/config"
	"upwatch/internal/handlers"
	"upwatch/internal/models"
	"upwatch/internal/services"
	"upwatch/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&store.Record{}))
	st := store.NewGormStore(db)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{MaxChecks: 5}

	audit := services.NewAuditService(st, logger)
	tokens := services.NewTokenService(st, audit, logger)
	accounts := services.NewAccountService(st, tokens, audit, logger)
	checks := services.NewCheckService(st, tokens, audit, logger, cfg.MaxChecks)

	h := handlers.NewHandler(cfg, logger, accounts, tokens, checks)
	return h.SetupRouter(nil)
}

func do(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestAccountCheckLifecycle walks the whole flow: register, login, create a
// check, read it back, delete it, and confirm the account's list is clean.
func TestAccountCheckLifecycle(t *testing.T) {
	r := setupRouter(t)

	// Register
	w := do(r, "POST", "/users", map[string]any{
		"firstName":    "Jane",
		"lastName":     "Doe",
		"phone":        "5551234567",
		"password":     "hunter22",
		"tosAgreement": true,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Login
	w = do(r, "POST", "/tokens", map[string]string{
		"phone":    "5551234567",
		"password": "hunter22",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var token models.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	require.Len(t, token.ID, 20)

	// Create a check
	w = do(r, "POST", "/checks", map[string]any{
		"protocol":       "https",
		"url":            "example.com",
		"method":         "get",
		"successCodes":   []int{200},
		"timeoutSeconds": 3,
	}, token.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var check models.Check
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &check))
	require.Len(t, check.ID, 20)

	// Read it back
	w = do(r, "GET", "/checks?id="+check.ID, nil, token.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Check
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "https", got.Protocol)
	assert.Equal(t, "example.com", got.URL)
	assert.Equal(t, "get", got.Method)
	assert.Equal(t, []int{200}, got.SuccessCodes)
	assert.Equal(t, 3, got.TimeoutSeconds)

	// The account lists the check
	w = do(r, "GET", "/users?phone=5551234567", nil, token.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var account models.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))
	assert.Contains(t, account.Checks, check.ID)

	// Delete the check
	w = do(r, "DELETE", "/checks?id="+check.ID, nil, token.ID)
	require.Equal(t, http.StatusOK, w.Code)

	// The account's list no longer has it
	w = do(r, "GET", "/users?phone=5551234567", nil, token.ID)
	require.Equal(t, http.StatusOK, w.Code)
	account = models.Account{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))
	assert.NotContains(t, account.Checks, check.ID)
}

// TestTokenRenewalFlow logs in, extends the token, then revokes it.
func TestTokenRenewalFlow(t *testing.T) {
	r := setupRouter(t)

	w := do(r, "POST", "/users", map[string]any{
		"firstName":    "Jane",
		"lastName":     "Doe",
		"phone":        "5557654321",
		"password":     "hunter22",
		"tosAgreement": true,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, "POST", "/tokens", map[string]string{
		"phone":    "5557654321",
		"password": "hunter22",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var token models.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))

	w = do(r, "PUT", "/tokens", map[string]any{"id": token.ID, "extend": true}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "DELETE", "/tokens?id="+token.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// A revoked token no longer authorizes anything
	w = do(r, "GET", "/users?phone=5557654321", nil, token.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
