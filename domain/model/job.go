package model

import "time"

// JobStatus is the lifecycle state of an archive job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether the status admits no further transition.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// ArchiveOptions are the caller-selected extras for one archive job.
type ArchiveOptions struct {
	EnableAI      bool `json:"enableAI"`
	DeepResearch  bool `json:"deepResearch"`
	DownloadMedia bool `json:"downloadMedia"`
}

// Job is the lifecycle record for one archive request. It lives in the
// key-value store under a bounded TTL whether or not it reaches a
// terminal state; an expired job is indistinguishable from one that
// never existed.
type Job struct {
	JobID     string         `json:"jobId"`
	URL       string         `json:"url"`
	Platform  Platform       `json:"platform"`
	Options   ArchiveOptions `json:"options"`
	Status    JobStatus      `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Result    *PostData      `json:"result,omitempty"`
	Analysis  *Analysis      `json:"analysis,omitempty"`
	Error     string         `json:"error,omitempty"`
}
