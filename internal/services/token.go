package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"upwatch/internal/models"
	"upwatch/internal/store"
	"upwatch/pkg/utils"
)

const (
	tokenLength = 20
	tokenTTL    = time.Hour
)

type TokenService struct {
	store        store.Store
	auditService *AuditService
	logger       *slog.Logger
	idGenerator  func(int) string
}

func NewTokenService(st store.Store, auditService *AuditService, logger *slog.Logger) *TokenService {
	return &TokenService{
		store:        st,
		auditService: auditService,
		logger:       logger,
		idGenerator:  utils.GenerateID,
	}
}

// Issue logs an account in: on a password match it creates a fresh token
// expiring one hour from now and returns the full record. An unknown phone
// and a wrong password yield the same error on purpose.
func (s *TokenService) Issue(ctx context.Context, phone, password string) (*models.Token, error) {
	var acct models.Account
	if err := s.store.Read(ctx, store.CollectionUsers, phone, &acct); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLoginFailed
		}
		return nil, fmt.Errorf("failed to read account: %w", err)
	}

	if !utils.CheckPasswordHash(password, acct.HashedPassword) {
		return nil, ErrLoginFailed
	}

	token := models.Token{
		Phone:   phone,
		ID:      s.idGenerator(tokenLength),
		Expires: time.Now().Add(tokenTTL).UnixMilli(),
	}

	if err := s.store.Create(ctx, store.CollectionTokens, token.ID, token); err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	s.auditService.LogAction(phone, "TOKEN_ISSUE", token.ID, "")

	return &token, nil
}

func (s *TokenService) Get(ctx context.Context, id string) (*models.Token, error) {
	var token models.Token
	if err := s.store.Read(ctx, store.CollectionTokens, id, &token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	return &token, nil
}

// Extend pushes an unexpired token's expiry to one hour from now. An expired
// token cannot be extended; a new login is required.
func (s *TokenService) Extend(ctx context.Context, id string) (*models.Token, error) {
	var token models.Token
	if err := s.store.Read(ctx, store.CollectionTokens, id, &token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	if token.Expired(time.Now()) {
		return nil, ErrTokenExpired
	}

	token.Expires = time.Now().Add(tokenTTL).UnixMilli()

	if err := s.store.Update(ctx, store.CollectionTokens, id, token); err != nil {
		return nil, fmt.Errorf("failed to update token expiration: %w", err)
	}

	return &token, nil
}

func (s *TokenService) Revoke(ctx context.Context, id string) error {
	var token models.Token
	if err := s.store.Read(ctx, store.CollectionTokens, id, &token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("failed to read token: %w", err)
	}

	if err := s.store.Delete(ctx, store.CollectionTokens, id); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	s.auditService.LogAction(token.Phone, "TOKEN_REVOKE", id, "")

	return nil
}

// Verify reports whether the token exists, belongs to the given phone, and
// has not expired. Every failure mode, lookup errors included, collapses to
// false; this is the single authorization gate for account and check access.
func (s *TokenService) Verify(ctx context.Context, id, phone string) bool {
	if id == "" {
		return false
	}

	var token models.Token
	if err := s.store.Read(ctx, store.CollectionTokens, id, &token); err != nil {
		return false
	}

	return token.Phone == phone && !token.Expired(time.Now())
}
