package repository

import (
	"context"

	"post-archiver/domain/model"
)

// IAnalyzer is the AI-analysis collaborator. Consumed opportunistically
// after a job completes; failures never fail the job.
type IAnalyzer interface {
	Analyze(ctx context.Context, post *model.PostData) (*model.Analysis, error)
}

// IVaultWriter is the vault/file-writer collaborator: it takes the
// normalized post plus rendered markdown and returns the stored path.
type IVaultWriter interface {
	Write(ctx context.Context, post *model.PostData, markdown string) (string, error)
}
