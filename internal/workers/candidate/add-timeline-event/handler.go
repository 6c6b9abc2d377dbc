// internal/workers/candidate/add-timeline-event/handler.go

// Package addtimelineevent appends experience entries to a candidate's
// timeline. Entries are immutable once written; corrections happen by adding
// new entries, never by rewriting history.
package addtimelineevent

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"talent-timeline-workers/internal/common/logger"
	"talent-timeline-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "add-timeline-event"
)

var (
	ErrCandidateNotFound = errors.New("CANDIDATE_NOT_FOUND")
	ErrValidationFailed  = errors.New("PROFILE_VALIDATION_FAILED")
	ErrInsertFailed      = errors.New("DATABASE_INSERT_FAILED")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "DATABASE_INSERT_FAILED"
		switch {
		case errors.Is(err, ErrCandidateNotFound):
			errorCode = "CANDIDATE_NOT_FOUND"
		case errors.Is(err, ErrValidationFailed):
			errorCode = "PROFILE_VALIDATION_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.CandidateID) == "" {
		return nil, fmt.Errorf("%w: candidateId is required", ErrValidationFailed)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidationFailed)
	}

	var exists bool
	err := h.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM candidates WHERE id = $1)`, input.CandidateID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCandidateNotFound, input.CandidateID)
	}

	tags := models.NormalizeTags(input.Tags)

	var eventID int64
	err = h.db.QueryRowContext(ctx, `
		INSERT INTO timeline_events
			(candidate_id, title, organization, start_date, end_date, tags, responsibilities, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		input.CandidateID, input.Title, input.Organization,
		input.StartDate, input.EndDate, models.JoinTags(tags),
		input.Responsibilities, input.Description).Scan(&eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	h.invalidateSnapshot(ctx)

	h.logger.Info("timeline event added", map[string]interface{}{
		"candidateId": input.CandidateID,
		"eventId":     eventID,
		"tags":        tags,
	})

	return &Output{
		EventID:     eventID,
		CandidateID: input.CandidateID,
		Tags:        tags,
	}, nil
}

func (h *Handler) invalidateSnapshot(ctx context.Context) {
	if h.redis == nil {
		return
	}
	if err := h.redis.Del(ctx, h.config.SnapshotKey).Err(); err != nil {
		h.logger.Warn("snapshot cache invalidation failed", map[string]interface{}{
			"key":   h.config.SnapshotKey,
			"error": err,
		})
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
