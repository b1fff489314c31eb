package profile

import (
	"context"

	"skillbridge/internal/common"
)

type Repository interface {
	GetByUID(ctx context.Context, uid common.UUID) (*Profile, error)
	// Upsert must be keyed by UID so that concurrent first-time resolution
	// from two sessions converges on a single row.
	Upsert(ctx context.Context, p Profile) (*Profile, error)
	Update(ctx context.Context, p Profile) (*Profile, error)
}
