package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"upwatch/internal/config"
	"upwatch/internal/services"
	"upwatch/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testMaxChecks = 5

func setupTestHandler(t *testing.T) (*Handler, store.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&store.Record{}))
	st := store.NewGormStore(db)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{MaxChecks: testMaxChecks}

	audit := services.NewAuditService(st, logger)
	tokens := services.NewTokenService(st, audit, logger)
	accounts := services.NewAccountService(st, tokens, audit, logger)
	checks := services.NewCheckService(st, tokens, audit, logger, cfg.MaxChecks)

	h := NewHandler(cfg, logger, accounts, tokens, checks)
	return h, st
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil)
}

func performRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		buf = bytes.NewBuffer(jsonBody)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createAccountFixture(t *testing.T, r http.Handler, phone string) {
	t.Helper()
	w := performRequest(r, "POST", "/users", map[string]any{
		"firstName":    "Jane",
		"lastName":     "Doe",
		"phone":        phone,
		"password":     "hunter22",
		"tosAgreement": true,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func issueTokenFixture(t *testing.T, r http.Handler, phone string) string {
	t.Helper()
	w := performRequest(r, "POST", "/tokens", map[string]string{
		"phone":    phone,
		"password": "hunter22",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var token struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	require.Len(t, token.ID, 20)
	return token.ID
}
