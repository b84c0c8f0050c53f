package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"upwatch/internal/models"
	"upwatch/internal/store"
	"upwatch/pkg/utils"
)

type CreateAccountInput struct {
	FirstName string
	LastName  string
	Phone     string
	Password  string
	IPAddress string // For Audit Log
}

type UpdateAccountInput struct {
	Phone     string
	FirstName string
	LastName  string
	Password  string
}

type AccountService struct {
	store        store.Store
	tokenService *TokenService
	auditService *AuditService
	logger       *slog.Logger
}

func NewAccountService(st store.Store, tokenService *TokenService, auditService *AuditService, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:        st,
		tokenService: tokenService,
		auditService: auditService,
		logger:       logger,
	}
}

// Create registers a new account keyed by phone number. The phone must be
// unused; the password is stored only as a hash.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) error {
	var existing models.Account
	err := s.store.Read(ctx, store.CollectionUsers, in.Phone, &existing)
	if err == nil {
		return ErrAccountExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to check for existing account: %w", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Phone:          in.Phone,
		HashedPassword: hash,
		TosAgreement:   true,
	}

	if err := s.store.Create(ctx, store.CollectionUsers, in.Phone, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrAccountExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	s.auditService.LogAction(in.Phone, "ACCOUNT_CREATE", in.Phone, in.IPAddress)

	return nil
}

// Get returns the account for phone with the password hash stripped. The
// token must verify against that phone.
func (s *AccountService) Get(ctx context.Context, phone, tokenID string) (*models.Account, error) {
	if !s.tokenService.Verify(ctx, tokenID, phone) {
		return nil, ErrUnauthorized
	}

	var account models.Account
	if err := s.store.Read(ctx, store.CollectionUsers, phone, &account); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to read account: %w", err)
	}

	account.HashedPassword = ""
	return &account, nil
}

// Update applies the supplied fields to the account. Empty fields are left
// untouched; a new password is re-hashed. The caller guarantees at least one
// field is set.
func (s *AccountService) Update(ctx context.Context, in UpdateAccountInput, tokenID string) error {
	if !s.tokenService.Verify(ctx, tokenID, in.Phone) {
		return ErrUnauthorized
	}

	var account models.Account
	if err := s.store.Read(ctx, store.CollectionUsers, in.Phone, &account); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to read account: %w", err)
	}

	if in.FirstName != "" {
		account.FirstName = in.FirstName
	}
	if in.LastName != "" {
		account.LastName = in.LastName
	}
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		account.HashedPassword = hash
	}

	if err := s.store.Update(ctx, store.CollectionUsers, in.Phone, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}

// Delete removes the account and then cascades to every owned check. The
// cascade is not transactional: the account record is gone even when check
// deletions fail, in which case the failures are counted and reported as a
// partial failure.
func (s *AccountService) Delete(ctx context.Context, phone, tokenID string) error {
	if !s.tokenService.Verify(ctx, tokenID, phone) {
		return ErrUnauthorized
	}

	var account models.Account
	if err := s.store.Read(ctx, store.CollectionUsers, phone, &account); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to read account: %w", err)
	}

	if err := s.store.Delete(ctx, store.CollectionUsers, phone); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	failed := 0
	for _, checkID := range account.Checks {
		if err := s.store.Delete(ctx, store.CollectionChecks, checkID); err != nil {
			s.logger.Error("Failed to delete check during account cascade", "phone", phone, "check_id", checkID, "error", err)
			failed++
		}
	}

	s.auditService.LogAction(phone, "ACCOUNT_DELETE", phone, "")

	if failed > 0 {
		return &PartialFailureError{
			Message: fmt.Sprintf("errors encountered while deleting the account's checks: %d of %d checks may not have been removed", failed, len(account.Checks)),
		}
	}

	return nil
}
