package repository

import (
	"context"

	"post-archiver/domain/model"
)

// IJobStore persists archive job records with a bounded TTL.
// A missing record must surface as *model.NotFoundError.
type IJobStore interface {
	Put(ctx context.Context, job *model.Job) error
	Get(ctx context.Context, jobID string) (*model.Job, error)
}

// ICorrelation maps a provider snapshot id to a job id. Resolve
// consumes the mapping: it is valid exactly once.
type ICorrelation interface {
	Put(ctx context.Context, snapshotID, jobID string) error
	Resolve(ctx context.Context, snapshotID string) (string, error)
}
