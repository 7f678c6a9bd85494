package ingestion

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/shared"
)

// LogStatus is the lifecycle state of a processing log entry
type LogStatus string

const (
	LogStatusReceived   LogStatus = "RECEIVED"
	LogStatusProcessing LogStatus = "PROCESSING"
	LogStatusCompleted  LogStatus = "COMPLETED"
	LogStatusFailed     LogStatus = "FAILED"
)

// DefaultMaxErrorLength bounds stored error messages, in runes
const DefaultMaxErrorLength = 1000

// IsTerminal returns true for COMPLETED and FAILED
func (s LogStatus) IsTerminal() bool {
	return s == LogStatusCompleted || s == LogStatusFailed
}

// ProcessingLogEntry is the audit record of one inbound event attempt.
// Entries are append-only; the pipeline never deletes them.
type ProcessingLogEntry struct {
	shared.BaseEntity
	TenantID     uuid.UUID
	EventTopic   string
	DeliveryID   string
	RawPayload   string
	Status       LogStatus
	ErrorMessage *string
}

// NewProcessingLogEntry creates a RECEIVED entry. Text fields are stored
// as valid UTF-8 without NUL bytes so any signed body can be audited.
func NewProcessingLogEntry(tenantID uuid.UUID, topic, deliveryID string, rawPayload []byte) *ProcessingLogEntry {
	return &ProcessingLogEntry{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		EventTopic: SanitizeText(topic),
		DeliveryID: SanitizeText(deliveryID),
		RawPayload: SanitizeText(string(rawPayload)),
		Status:     LogStatusReceived,
	}
}

// SanitizeText replaces invalid UTF-8 with U+FFFD and drops NUL bytes,
// neither of which a Postgres text column accepts.
func SanitizeText(s string) string {
	if utf8.ValidString(s) && strings.IndexByte(s, 0) < 0 {
		return s
	}
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
}

// TruncateMessage bounds msg to max runes, marking the cut with an ellipsis
func TruncateMessage(msg string, max int) string {
	if max <= 0 {
		max = DefaultMaxErrorLength
	}
	if utf8.RuneCountInString(msg) <= max {
		return msg
	}
	runes := []rune(msg)
	return string(runes[:max-1]) + "…"
}

// ProcessingLogRepository persists processing log entries
type ProcessingLogRepository interface {
	Create(ctx context.Context, entry *ProcessingLogEntry) error

	// UpdateStatus moves an entry to status and sets or clears its error message
	UpdateStatus(ctx context.Context, id uuid.UUID, status LogStatus, errorMessage *string, at time.Time) error

	FindByID(ctx context.Context, id uuid.UUID) (*ProcessingLogEntry, error)

	// FindRecent returns the newest entries of a tenant
	FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]ProcessingLogEntry, error)

	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
