package roster

import "context"

// Repository exposes the static roster to use cases.
type Repository interface {
	List(ctx context.Context) ([]TrackedPlayer, error)
	GetByName(ctx context.Context, name string) (TrackedPlayer, bool, error)
}
