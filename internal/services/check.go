package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"upwatch/internal/models"
	"upwatch/internal/store"
	"upwatch/pkg/utils"
)

const checkIDLength = 20

type CreateCheckInput struct {
	Protocol       string
	URL            string
	Method         string
	SuccessCodes   []int
	TimeoutSeconds int
	IPAddress      string // For Audit Log
}

type UpdateCheckInput struct {
	ID             string
	Protocol       string
	URL            string
	Method         string
	SuccessCodes   []int
	TimeoutSeconds int
}

type CheckService struct {
	store        store.Store
	tokenService *TokenService
	auditService *AuditService
	logger       *slog.Logger
	maxChecks    int
	idGenerator  func(int) string
}

func NewCheckService(st store.Store, tokenService *TokenService, auditService *AuditService, logger *slog.Logger, maxChecks int) *CheckService {
	return &CheckService{
		store:        st,
		tokenService: tokenService,
		auditService: auditService,
		logger:       logger,
		maxChecks:    maxChecks,
		idGenerator:  utils.GenerateID,
	}
}

// Create makes a new check owned by the account the token is bound to. The
// owner comes from the token record itself; no caller-supplied account key is
// accepted on this path. Quota is enforced against the owner's current check
// count.
func (s *CheckService) Create(ctx context.Context, tokenID string, in CreateCheckInput) (*models.Check, error) {
	var token models.Token
	if err := s.store.Read(ctx, store.CollectionTokens, tokenID, &token); err != nil {
		return nil, ErrUnauthorized
	}

	var account models.Account
	if err := s.store.Read(ctx, store.CollectionUsers, token.Phone, &account); err != nil {
		return nil, ErrForbidden
	}

	if len(account.Checks) >= s.maxChecks {
		return nil, &QuotaError{Max: s.maxChecks}
	}

	check := models.Check{
		ID:             s.idGenerator(checkIDLength),
		UserPhone:      token.Phone,
		Protocol:       in.Protocol,
		URL:            in.URL,
		Method:         in.Method,
		SuccessCodes:   in.SuccessCodes,
		TimeoutSeconds: in.TimeoutSeconds,
	}

	if err := s.store.Create(ctx, store.CollectionChecks, check.ID, check); err != nil {
		return nil, fmt.Errorf("failed to create check: %w", err)
	}

	account.Checks = append(account.Checks, check.ID)
	if err := s.store.Update(ctx, store.CollectionUsers, token.Phone, account); err != nil {
		// The check record exists but is not on the owner's list
		return nil, &PartialFailureError{
			Message: "could not update the user with the new check",
			Err:     err,
		}
	}

	s.auditService.LogAction(token.Phone, "CHECK_CREATE", check.ID, in.IPAddress)

	return &check, nil
}

// Get returns the check after verifying the token against its owner.
func (s *CheckService) Get(ctx context.Context, id, tokenID string) (*models.Check, error) {
	var check models.Check
	if err := s.store.Read(ctx, store.CollectionChecks, id, &check); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCheckNotFound
		}
		return nil, fmt.Errorf("failed to read check: %w", err)
	}

	if !s.tokenService.Verify(ctx, tokenID, check.UserPhone) {
		return nil, ErrUnauthorized
	}

	return &check, nil
}

// Update merges the supplied fields into the check. Zero-valued fields are
// left untouched; the caller guarantees at least one field is set.
func (s *CheckService) Update(ctx context.Context, tokenID string, in UpdateCheckInput) error {
	var check models.Check
	if err := s.store.Read(ctx, store.CollectionChecks, in.ID, &check); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCheckNotFound
		}
		return fmt.Errorf("failed to read check: %w", err)
	}

	if !s.tokenService.Verify(ctx, tokenID, check.UserPhone) {
		return ErrUnauthorized
	}

	if in.Protocol != "" {
		check.Protocol = in.Protocol
	}
	if in.URL != "" {
		check.URL = in.URL
	}
	if in.Method != "" {
		check.Method = in.Method
	}
	if len(in.SuccessCodes) > 0 {
		check.SuccessCodes = in.SuccessCodes
	}
	if in.TimeoutSeconds > 0 {
		check.TimeoutSeconds = in.TimeoutSeconds
	}

	if err := s.store.Update(ctx, store.CollectionChecks, in.ID, check); err != nil {
		return fmt.Errorf("failed to update check: %w", err)
	}

	return nil
}

// Delete removes the check and then takes its id off the owner's list. The
// two steps are not transactional: once the check record is gone, a failure
// to fix the owner's list surfaces as a partial failure.
func (s *CheckService) Delete(ctx context.Context, id, tokenID string) error {
	var check models.Check
	if err := s.store.Read(ctx, store.CollectionChecks, id, &check); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCheckNotFound
		}
		return fmt.Errorf("failed to read check: %w", err)
	}

	if !s.tokenService.Verify(ctx, tokenID, check.UserPhone) {
		return ErrUnauthorized
	}

	if err := s.store.Delete(ctx, store.CollectionChecks, id); err != nil {
		return fmt.Errorf("failed to delete check: %w", err)
	}

	var account models.Account
	if err := s.store.Read(ctx, store.CollectionUsers, check.UserPhone, &account); err != nil {
		return &PartialFailureError{
			Message: "could not find the user who created the check, so could not remove the check from their list",
			Err:     err,
		}
	}

	idx := slices.Index(account.Checks, id)
	if idx < 0 {
		return &PartialFailureError{
			Message: "could not find the check on the user's list, so could not remove it",
		}
	}
	account.Checks = slices.Delete(account.Checks, idx, idx+1)

	if err := s.store.Update(ctx, store.CollectionUsers, check.UserPhone, account); err != nil {
		return &PartialFailureError{
			Message: "could not update the user after removing the check",
			Err:     err,
		}
	}

	s.auditService.LogAction(check.UserPhone, "CHECK_DELETE", id, "")

	return nil
}
