// Package source defines the port for loading the startup dataset.
package source

import (
	"context"

	"denguedash/internal/core"
)

// DatasetSource loads all records once at startup. Implementations are
// read-only: appended rows never flow back through this port.
type DatasetSource interface {
	Load(ctx context.Context) ([]core.Record, error)
}
