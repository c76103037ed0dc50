package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"post-archiver/domain/model"
	"post-archiver/domain/repository"
)

const (
	jobKeyPrefix      = "archive:job:"
	snapshotKeyPrefix = "archive:snapshot:"
)

// JobStore keeps archive job records in redis under a bounded TTL.
// Redis is the only shared mutable state for jobs; correctness relies
// on the single-producer invariant per job, not on locking.
type JobStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewJobStore(rdb *redis.Client, ttl time.Duration) *JobStore {
	return &JobStore{rdb: rdb, ttl: ttl}
}

func (s *JobStore) Put(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, jobKeyPrefix+job.JobID, data, s.ttl).Err()
}

func (s *JobStore) Get(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.rdb.Get(ctx, jobKeyPrefix+jobID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &model.NotFoundError{Resource: "job", ID: jobID}
	}
	if err != nil {
		return nil, err
	}
	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CorrelationStore maps provider snapshot ids to job ids. Entries share
// the job TTL class and are consumed exactly once on resolve.
type CorrelationStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCorrelationStore(rdb *redis.Client, ttl time.Duration) *CorrelationStore {
	return &CorrelationStore{rdb: rdb, ttl: ttl}
}

func (s *CorrelationStore) Put(ctx context.Context, snapshotID, jobID string) error {
	return s.rdb.Set(ctx, snapshotKeyPrefix+snapshotID, jobID, s.ttl).Err()
}

// Resolve returns and deletes the mapping in one round trip.
func (s *CorrelationStore) Resolve(ctx context.Context, snapshotID string) (string, error) {
	jobID, err := s.rdb.GetDel(ctx, snapshotKeyPrefix+snapshotID).Result()
	if errors.Is(err, redis.Nil) {
		return "", &model.NotFoundError{Resource: "snapshot correlation", ID: snapshotID}
	}
	if err != nil {
		return "", err
	}
	return jobID, nil
}

var (
	_ repository.IJobStore    = (*JobStore)(nil)
	_ repository.ICorrelation = (*CorrelationStore)(nil)
)
