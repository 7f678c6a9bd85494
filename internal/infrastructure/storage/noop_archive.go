package storage

import (
	"context"

	"github.com/shopsight/backend/internal/domain/ingestion"
)

// NoopArchive discards payloads. Used when archiving is disabled.
type NoopArchive struct{}

// Store does nothing and returns an empty key
func (NoopArchive) Store(context.Context, *ingestion.ProcessingLogEntry, []byte) (string, error) {
	return "", nil
}

// Ensure NoopArchive implements PayloadArchive
var _ ingestion.PayloadArchive = NoopArchive{}
