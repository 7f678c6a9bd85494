package models

import (
	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/ingestion"
)

// ProcessingLogModel is the persistence model for webhook processing log entries
type ProcessingLogModel struct {
	BaseModel
	TenantID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	EventTopic   string              `gorm:"type:varchar(255);not null"`
	DeliveryID   string              `gorm:"type:varchar(255);index"`
	RawPayload   string              `gorm:"type:text"`
	Status       ingestion.LogStatus `gorm:"type:varchar(20);not null;index"`
	ErrorMessage *string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProcessingLogModel) TableName() string {
	return "processing_logs"
}

// ToDomain converts the persistence model to a domain ProcessingLogEntry
func (m *ProcessingLogModel) ToDomain() *ingestion.ProcessingLogEntry {
	return &ingestion.ProcessingLogEntry{
		BaseEntity:   m.BaseModel.ToDomain(),
		TenantID:     m.TenantID,
		EventTopic:   m.EventTopic,
		DeliveryID:   m.DeliveryID,
		RawPayload:   m.RawPayload,
		Status:       m.Status,
		ErrorMessage: m.ErrorMessage,
	}
}

// ProcessingLogModelFromDomain creates a persistence model from a domain entry
func ProcessingLogModelFromDomain(e *ingestion.ProcessingLogEntry) *ProcessingLogModel {
	m := &ProcessingLogModel{
		TenantID:     e.TenantID,
		EventTopic:   e.EventTopic,
		DeliveryID:   e.DeliveryID,
		RawPayload:   e.RawPayload,
		Status:       e.Status,
		ErrorMessage: e.ErrorMessage,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
