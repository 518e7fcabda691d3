package ports

import (
	"context"

	"procova/domain/design"
)

// RunRepository persists completed estimation runs
type RunRepository interface {
	Save(ctx context.Context, run *design.Run) error
	ListRecent(ctx context.Context, limit int) ([]*design.Run, error)
}
