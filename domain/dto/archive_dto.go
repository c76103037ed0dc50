package dto

import "post-archiver/domain/model"

// ArchiveRequest is the body of POST /archive.
type ArchiveRequest struct {
	URL        string               `json:"url" binding:"required"`
	Options    model.ArchiveOptions `json:"options"`
	LicenseKey string               `json:"licenseKey"`
}

// ArchiveAccepted is the 202 response for a submitted job.
type ArchiveAccepted struct {
	JobID           string          `json:"jobId"`
	Status          model.JobStatus `json:"status"`
	EstimatedTime   int             `json:"estimatedTime"` // seconds
	CreditsRequired int64           `json:"creditsRequired"`
}

// JobStatusResponse is the body of GET /archive/:jobId.
type JobStatusResponse struct {
	JobID    string          `json:"jobId"`
	Status   model.JobStatus `json:"status"`
	Result   *model.PostData `json:"result,omitempty"`
	Analysis *model.Analysis `json:"analysis,omitempty"`
	Error    string          `json:"error,omitempty"`
}
