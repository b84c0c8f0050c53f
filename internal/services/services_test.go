package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"upwatch/internal/models"
	"upwatch/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testMaxChecks = 5

func setupTestServices(t *testing.T) (*AccountService, *TokenService, *CheckService, store.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&store.Record{}))
	st := store.NewGormStore(db)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	audit := NewAuditService(st, logger)
	tokens := NewTokenService(st, audit, logger)
	accounts := NewAccountService(st, tokens, audit, logger)
	checks := NewCheckService(st, tokens, audit, logger, testMaxChecks)

	return accounts, tokens, checks, st
}

func createTestAccount(t *testing.T, accounts *AccountService, phone string) {
	t.Helper()
	err := accounts.Create(context.Background(), CreateAccountInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     phone,
		Password:  "hunter22",
	})
	require.NoError(t, err)
}

func issueTestToken(t *testing.T, tokens *TokenService, phone string) *models.Token {
	t.Helper()
	token, err := tokens.Issue(context.Background(), phone, "hunter22")
	require.NoError(t, err)
	return token
}

func createTestCheck(t *testing.T, checks *CheckService, tokenID string) *models.Check {
	t.Helper()
	check, err := checks.Create(context.Background(), tokenID, CreateCheckInput{
		Protocol:       "https",
		URL:            "example.com",
		Method:         "get",
		SuccessCodes:   []int{200},
		TimeoutSeconds: 3,
	})
	require.NoError(t, err)
	return check
}
