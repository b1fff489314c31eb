package application

import (
	"context"

	"skillbridge/internal/common"
)

type Repository interface {
	// Create must fail with CodeConflict when an application for the same
	// (task, applicant) pair already exists, backed by a unique index.
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByTaskAndApplicant(ctx context.Context, taskID, applicantID common.UUID) (*Application, error)
	ListByApplicant(ctx context.Context, applicantID common.UUID) ([]Application, error)
	ListByTaskOwner(ctx context.Context, posterID common.UUID) ([]Application, error)
	// UpdateStatus only moves a pending application. When another writer
	// decided it first, an identical status returns the stored record and a
	// conflicting one fails with CodeInvalidTransition.
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Application, error)
}
