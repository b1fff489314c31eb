package task

import (
	"context"

	"skillbridge/internal/common"
)

type Repository interface {
	Create(ctx context.Context, t Task) (*Task, error)
	GetByID(ctx context.Context, id common.UUID) (*Task, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]Task, error)
	ListByPoster(ctx context.Context, posterID common.UUID) ([]Task, error)
}
