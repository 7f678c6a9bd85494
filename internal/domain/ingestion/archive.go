package ingestion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PayloadArchive keeps a copy of raw webhook bodies outside the database
type PayloadArchive interface {
	// Store writes body under a key derived from the entry and returns the key
	Store(ctx context.Context, entry *ProcessingLogEntry, body []byte) (string, error)
}

// ArchiveKey builds the object key <prefix>/<tenant>/<yyyy>/<mm>/<dd>/<log id>.json
func ArchiveKey(prefix string, tenantID, logID uuid.UUID, receivedAt time.Time) string {
	prefix = strings.Trim(prefix, "/")
	day := receivedAt.UTC().Format("2006/01/02")
	key := fmt.Sprintf("%s/%s/%s.json", tenantID, day, logID)
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
