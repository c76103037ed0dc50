package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"post-archiver/domain/dto"
	"post-archiver/domain/model"
	"post-archiver/domain/repository"
	"post-archiver/infrastructure/logger"
	"post-archiver/normalizer"
	"post-archiver/platform"

	"github.com/google/uuid"
)

// ArchiveConfig is the tunable surface of the archive pipeline.
type ArchiveConfig struct {
	// WebhookPlatforms lists platforms whose datasets run too long for
	// polling; the provider notifies the webhook endpoint instead.
	WebhookPlatforms map[model.Platform]bool
	PollInterval     time.Duration
	PollTimeout      time.Duration
	PublicBaseURL    string

	CostBase         int64
	CostAI           int64
	CostDeepResearch int64
}

// Completion time hints by platform, in seconds. Purely advisory.
var estimatedSeconds = map[model.Platform]int{
	model.PlatformFacebook:  60,
	model.PlatformLinkedIn:  300,
	model.PlatformInstagram: 45,
	model.PlatformTikTok:    45,
	model.PlatformX:         30,
	model.PlatformThreads:   60,
}

type IArchiveUsecase interface {
	// Submit validates the request, reserves credits, creates the job
	// record, and starts collection in the background.
	Submit(ctx context.Context, req dto.ArchiveRequest) (*dto.ArchiveAccepted, error)
	GetStatus(ctx context.Context, jobID string) (*dto.JobStatusResponse, error)
	// CompleteFromWebhook resolves a snapshot id back to its job and
	// finishes it. The snapshot correlation is consumed exactly once;
	// retries after the first delivery surface *model.NotFoundError.
	CompleteFromWebhook(ctx context.Context, snapshotID, status, upstreamErr string) error
}

type archiveUsecase struct {
	jobs         repository.IJobStore
	correlations repository.ICorrelation
	provider     repository.IProvider
	licenses     repository.ILicense
	deadLetters  repository.IDeadLetter
	publishers   []repository.IEventPublisher
	analyzer     repository.IAnalyzer    // optional
	vault        repository.IVaultWriter // optional
	cfg          ArchiveConfig
}

func NewArchiveUsecase(
	jobs repository.IJobStore,
	correlations repository.ICorrelation,
	provider repository.IProvider,
	licenses repository.ILicense,
	deadLetters repository.IDeadLetter,
	publishers []repository.IEventPublisher,
	analyzer repository.IAnalyzer,
	vault repository.IVaultWriter,
	cfg ArchiveConfig,
) IArchiveUsecase {
	return &archiveUsecase{
		jobs:         jobs,
		correlations: correlations,
		provider:     provider,
		licenses:     licenses,
		deadLetters:  deadLetters,
		publishers:   publishers,
		analyzer:     analyzer,
		vault:        vault,
		cfg:          cfg,
	}
}

// cost returns the credit price of one archive request.
func (u *archiveUsecase) cost(opts model.ArchiveOptions) int64 {
	n := u.cfg.CostBase
	if opts.EnableAI {
		n += u.cfg.CostAI
	}
	if opts.DeepResearch {
		n += u.cfg.CostDeepResearch
	}
	return n
}

func (u *archiveUsecase) Submit(ctx context.Context, req dto.ArchiveRequest) (*dto.ArchiveAccepted, error) {
	p, err := platform.Detect(req.URL)
	if err != nil {
		return nil, err
	}
	normalized := platform.NormalizeURL(req.URL, p)

	// Credits are settled synchronously, before any job record exists, so
	// a rejected request leaves no trace.
	required := u.cost(req.Options)
	if u.licenses != nil && req.LicenseKey != "" {
		if err := u.licenses.CreateIfMissing(ctx, req.LicenseKey, model.TierFree); err != nil {
			return nil, err
		}
		if err := u.licenses.DeductCredits(ctx, req.LicenseKey, required); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	job := &model.Job{
		JobID:     uuid.NewString(),
		URL:       normalized,
		Platform:  p,
		Options:   req.Options,
		Status:    model.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.jobs.Put(ctx, job); err != nil {
		return nil, err
	}

	go u.run(job)

	return &dto.ArchiveAccepted{
		JobID:           job.JobID,
		Status:          job.Status,
		EstimatedTime:   estimatedSeconds[p],
		CreditsRequired: required,
	}, nil
}

// run drives one job from pending to a terminal state. It owns its own
// context: the submitting HTTP request has long since returned.
func (u *archiveUsecase) run(job *model.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), u.cfg.PollTimeout+2*time.Minute)
	defer cancel()

	log := logger.GetLogger().
		WithField("jobId", job.JobID).
		WithField("platform", string(job.Platform))

	if err := u.advance(ctx, job.JobID, model.JobProcessing, nil, ""); err != nil {
		log.WithField("error", err).Error("Failed to mark job processing")
		return
	}

	if u.cfg.WebhookPlatforms[job.Platform] && u.cfg.PublicBaseURL != "" {
		webhookURL := u.cfg.PublicBaseURL + "/webhook/provider"
		snapshotID, err := u.provider.TriggerCollectionWithWebhook(ctx, job.URL, job.Platform, webhookURL)
		if err != nil {
			u.fail(ctx, job.JobID, err)
			return
		}
		if err := u.correlations.Put(ctx, snapshotID, job.JobID); err != nil {
			// Without the correlation the webhook can never find the job.
			u.fail(ctx, job.JobID, fmt.Errorf("storing snapshot correlation: %w", err))
			return
		}
		log.WithField("snapshotId", snapshotID).Info("Collection triggered, awaiting webhook")
		return
	}

	snapshotID, err := u.provider.TriggerCollection(ctx, job.URL, job.Platform)
	if err != nil {
		u.fail(ctx, job.JobID, err)
		return
	}
	log.WithField("snapshotId", snapshotID).Info("Collection triggered, polling")

	raw, err := u.provider.PollUntilReady(ctx, snapshotID, u.cfg.PollTimeout, u.cfg.PollInterval)
	if err != nil {
		u.fail(ctx, job.JobID, err)
		return
	}
	u.finish(ctx, job.JobID, raw)
}

func (u *archiveUsecase) CompleteFromWebhook(ctx context.Context, snapshotID, status, upstreamErr string) error {
	jobID, err := u.correlations.Resolve(ctx, snapshotID)
	if err != nil {
		return err
	}

	if status == "failed" {
		u.fail(ctx, jobID, &model.ProviderError{Op: "collect", Body: upstreamErr})
		return nil
	}

	raw, err := u.provider.DownloadSnapshot(ctx, snapshotID)
	if err != nil {
		u.fail(ctx, jobID, err)
		return nil
	}
	u.finish(ctx, jobID, raw)
	return nil
}

// finish normalizes the raw record, runs optional analysis, and
// completes the job.
func (u *archiveUsecase) finish(ctx context.Context, jobID string, raw repository.RawRecord) {
	job, err := u.jobs.Get(ctx, jobID)
	if err != nil {
		logger.GetLogger().WithField("jobId", jobID).WithField("error", err).Error("Job vanished before completion")
		return
	}

	post, err := normalizer.ParsePost(job.Platform, raw, job.URL)
	if err != nil {
		u.fail(ctx, jobID, err)
		return
	}

	var analysis *model.Analysis
	if u.analyzer != nil && job.Options.EnableAI {
		analysis, err = u.analyzer.Analyze(ctx, &post)
		if err != nil {
			// Analysis is opportunistic: the archived post stands on its own.
			logger.GetLogger().WithField("jobId", jobID).WithField("error", err).Warn("Analysis failed, completing without it")
			analysis = nil
		}
	}

	if err := u.advance(ctx, jobID, model.JobCompleted, &post, ""); err != nil {
		logger.GetLogger().WithField("jobId", jobID).WithField("error", err).Error("Failed to complete job")
		return
	}
	if analysis != nil {
		if job, err := u.jobs.Get(ctx, jobID); err == nil {
			job.Analysis = analysis
			job.UpdatedAt = time.Now().UTC()
			_ = u.jobs.Put(ctx, job)
		}
	}

	if u.vault != nil {
		if path, err := u.vault.Write(ctx, &post, RenderMarkdown(&post, analysis)); err != nil {
			logger.GetLogger().WithField("jobId", jobID).WithField("error", err).Warn("Vault write failed")
		} else {
			logger.GetLogger().WithField("jobId", jobID).WithField("path", path).Debug("Archive written to vault")
		}
	}
}

func (u *archiveUsecase) fail(ctx context.Context, jobID string, cause error) {
	logger.GetLogger().WithField("jobId", jobID).WithField("error", cause).Error("Archive job failed")
	if err := u.advance(ctx, jobID, model.JobFailed, nil, cause.Error()); err != nil {
		logger.GetLogger().WithField("jobId", jobID).WithField("error", err).Error("Failed to record job failure")
	}
	if u.deadLetters != nil {
		u.deadLetters.Write(ctx, model.DeadLetter{
			Source:  "archive",
			Message: cause.Error(),
			Context: map[string]any{"jobId": jobID},
		})
	}
}

// advance moves a job to status. Terminal states are sticky: once a job
// completes or fails, later transitions are refused.
func (u *archiveUsecase) advance(ctx context.Context, jobID string, status model.JobStatus, result *model.PostData, errMsg string) error {
	job, err := u.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		logger.GetLogger().
			WithField("jobId", jobID).
			WithField("from", string(job.Status)).
			WithField("to", string(status)).
			Warn("Refusing transition out of terminal state")
		return nil
	}

	job.Status = status
	job.UpdatedAt = time.Now().UTC()
	if result != nil {
		job.Result = result
	}
	job.Error = errMsg
	if err := u.jobs.Put(ctx, job); err != nil {
		return err
	}

	if status.Terminal() {
		u.publishEvent(ctx, job)
	}
	return nil
}

func (u *archiveUsecase) publishEvent(ctx context.Context, job *model.Job) {
	if len(u.publishers) == 0 {
		return
	}
	payload, err := json.Marshal(model.ArchiveEvent{
		JobID:    job.JobID,
		Status:   job.Status,
		Platform: job.Platform,
		URL:      job.URL,
		Error:    job.Error,
		At:       time.Now().UTC(),
	})
	if err != nil {
		return
	}
	for _, p := range u.publishers {
		if err := p.Publish(ctx, payload); err != nil {
			logger.GetLogger().WithField("jobId", job.JobID).WithField("error", err).Warn("Event publish failed")
		}
	}
}

func (u *archiveUsecase) GetStatus(ctx context.Context, jobID string) (*dto.JobStatusResponse, error) {
	job, err := u.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &dto.JobStatusResponse{
		JobID:    job.JobID,
		Status:   job.Status,
		Result:   job.Result,
		Analysis: job.Analysis,
		Error:    job.Error,
	}, nil
}
