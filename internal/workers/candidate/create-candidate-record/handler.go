// internal/workers/candidate/create-candidate-record/handler.go
package createcandidaterecord

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-timeline-workers/internal/common/logger"
	"talent-timeline-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "create-candidate-record"
)

var (
	ErrValidationFailed = errors.New("PROFILE_VALIDATION_FAILED")
	ErrInsertFailed     = errors.New("DATABASE_INSERT_FAILED")
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
		if errors.Is(err, ErrValidationFailed) {
			errorCode = "PROFILE_VALIDATION_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if !validation.ValidateEmail(input.Email) {
		return nil, fmt.Errorf("%w: invalid email %q", ErrValidationFailed, input.Email)
	}

	candidateID := input.CandidateID
	created := candidateID == ""
	if created {
		candidateID = uuid.NewString()
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)

	// Upsert keeps re-registration idempotent. Candidates are never deleted,
	// so an existing row just gets its profile fields refreshed.
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO candidates (id, name, email, location, availability, profile_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			location = EXCLUDED.location,
			availability = EXCLUDED.availability,
			profile_text = EXCLUDED.profile_text`,
		candidateID, input.Name, input.Email, input.Location,
		strings.ToLower(strings.TrimSpace(input.Availability)), input.ProfileText, createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	h.recordAudit(ctx, candidateID, created)
	h.invalidateSnapshot(ctx)

	h.logger.Info("candidate record stored", map[string]interface{}{
		"candidateId": candidateID,
		"created":     created,
	})

	return &Output{
		CandidateID: candidateID,
		Created:     created,
		CreatedAt:   createdAt,
	}, nil
}

// recordAudit is best effort; a failed audit row never fails the job.
func (h *Handler) recordAudit(ctx context.Context, candidateID string, created bool) {
	action := "update"
	if created {
		action = "create"
	}
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO candidate_audit_log (candidate_id, action, occurred_at)
		VALUES ($1, $2, NOW())`, candidateID, action)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"candidateId": candidateID,
			"error":       err,
		})
	}
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
