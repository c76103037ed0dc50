package persistence

import (
	"context"
	"time"

	"post-archiver/domain/model"
	"post-archiver/domain/repository"
	"post-archiver/infrastructure/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// DeadLetterRepository stores dead letters in MongoDB. A nil client
// degrades to log-only: the process keeps running without Mongo.
type DeadLetterRepository struct {
	collection *mongo.Collection
}

func NewDeadLetterRepository(client *mongo.Client, dbName string) *DeadLetterRepository {
	if client == nil {
		return &DeadLetterRepository{}
	}
	return &DeadLetterRepository{collection: client.Database(dbName).Collection("dead_letters")}
}

var _ repository.IDeadLetter = &DeadLetterRepository{}

// Write records a dead letter. Failures are logged and swallowed so the
// primary operation is never impacted.
func (r *DeadLetterRepository) Write(ctx context.Context, dl model.DeadLetter) {
	if dl.ID == "" {
		dl.ID = uuid.NewString()
	}
	if dl.CreatedAt.IsZero() {
		dl.CreatedAt = time.Now().UTC()
	}

	log := logger.GetLogger().
		WithField("source", dl.Source).
		WithField("deadLetterId", dl.ID)

	if r.collection == nil {
		log.WithField("message", dl.Message).Warn("Dead letter (mongo unavailable, log only)")
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := r.collection.InsertOne(writeCtx, dl); err != nil {
		log.WithField("error", err).Warn("Failed to persist dead letter")
		return
	}
	log.Debug("Dead letter recorded")
}
