package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/ingestion"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ProcessingLogService keeps the audit trail of inbound events.
// Open must succeed before any processing; the transitions after it only
// log their own failures so they never change the response of a delivery.
type ProcessingLogService struct {
	repo           ingestion.ProcessingLogRepository
	maxErrorLength int
	now            func() time.Time
}

// NewProcessingLogService creates a new ProcessingLogService.
// maxErrorLength <= 0 uses ingestion.DefaultMaxErrorLength.
func NewProcessingLogService(repo ingestion.ProcessingLogRepository, maxErrorLength int) *ProcessingLogService {
	if maxErrorLength <= 0 {
		maxErrorLength = ingestion.DefaultMaxErrorLength
	}
	return &ProcessingLogService{
		repo:           repo,
		maxErrorLength: maxErrorLength,
		now:            time.Now,
	}
}

// Open records a RECEIVED entry for an event
func (s *ProcessingLogService) Open(ctx context.Context, tenantID uuid.UUID, topic, deliveryID string, rawPayload []byte) (*ingestion.ProcessingLogEntry, error) {
	entry := ingestion.NewProcessingLogEntry(tenantID, topic, deliveryID, rawPayload)
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("open processing log: %w", err)
	}
	return entry, nil
}

// Start moves an entry to PROCESSING
func (s *ProcessingLogService) Start(ctx context.Context, id uuid.UUID) {
	s.transition(ctx, id, ingestion.LogStatusProcessing, nil)
}

// Complete moves an entry to COMPLETED and clears any error message
func (s *ProcessingLogService) Complete(ctx context.Context, id uuid.UUID) {
	s.transition(ctx, id, ingestion.LogStatusCompleted, nil)
}

// Fail moves an entry to FAILED with the bounded error text
func (s *ProcessingLogService) Fail(ctx context.Context, id uuid.UUID, cause error) {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	msg = ingestion.TruncateMessage(ingestion.SanitizeText(msg), s.maxErrorLength)
	s.transition(ctx, id, ingestion.LogStatusFailed, &msg)
}

func (s *ProcessingLogService) transition(ctx context.Context, id uuid.UUID, status ingestion.LogStatus, msg *string) {
	if err := s.repo.UpdateStatus(ctx, id, status, msg, s.now()); err != nil {
		logger.L(ctx).Error("Failed to update processing log",
			zap.String("log_id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}
