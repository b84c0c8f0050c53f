package services

import (
	"context"
	"log/slog"
	"time"

	"upwatch/internal/models"
	"upwatch/internal/store"

	"github.com/google/uuid"
)

// AuditService persists an asynchronous trail of mutating API actions to the
// store's audit collection. Logging is best-effort: a full channel drops the
// entry rather than block the request path.
type AuditService struct {
	store   store.Store
	logger  *slog.Logger
	entries chan models.AuditLog
}

func NewAuditService(st store.Store, logger *slog.Logger) *AuditService {
	return &AuditService{
		store:   st,
		logger:  logger,
		entries: make(chan models.AuditLog, 100),
	}
}

func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.entries:
			if err := s.store.Create(ctx, store.CollectionAudit, entry.ID, entry); err != nil {
				s.logger.Error("Failed to write audit log", "action", entry.Action, "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

func (s *AuditService) LogAction(phone, action, entityID, ip string) {
	entry := models.AuditLog{
		ID:        uuid.NewString(),
		Phone:     phone,
		Action:    action,
		EntityID:  entityID,
		IPAddress: ip,
		Timestamp: time.Now(),
	}

	select {
	case s.entries <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping entry", "action", action)
	}
}
