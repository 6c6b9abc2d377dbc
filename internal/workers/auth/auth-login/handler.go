// internal/workers/auth/auth-login/handler.go

// Package authlogin authenticates a user against Keycloak and opens a session.
// The session is the only authenticated-request context the process model
// carries; every later operation that needs the caller's identity reads it
// from job variables.
package authlogin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"talent-timeline-workers/internal/common/auth"
	"talent-timeline-workers/internal/common/logger"
	"talent-timeline-workers/internal/models"
)

const (
	TaskType = "auth-login"
)

var (
	ErrValidationFailed     = errors.New("VALIDATION_FAILED")
	ErrAuthenticationFailed = errors.New("AUTHENTICATION_FAILED")
	ErrSessionStoreFailed   = errors.New("SESSION_STORE_FAILED")
)

// TokenIssuer is the slice of the Keycloak client this worker needs.
type TokenIssuer interface {
	Login(ctx context.Context, username, password string) (*auth.TokenResponse, error)
}

type Handler struct {
	config   *Config
	issuer   TokenIssuer
	sessions models.SessionStore
	logger   logger.Logger
}

func NewHandler(config *Config, issuer TokenIssuer, sessions models.SessionStore, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		issuer:   issuer,
		sessions: sessions,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		errorCode := "AUTHENTICATION_FAILED"
		if errors.Is(err, ErrValidationFailed) {
			errorCode = "VALIDATION_FAILED"
		} else if errors.Is(err, ErrSessionStoreFailed) {
			errorCode = "SESSION_STORE_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidationFailed)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidationFailed)
	}

	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role == "" {
		role = models.RoleRecruiter
	}
	if role != models.RoleRecruiter && role != models.RoleCandidate {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidationFailed, input.Role)
	}

	token, err := h.issuer.Login(ctx, username, input.Password)
	if err != nil {
		h.logger.Warn("login rejected", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	now := time.Now().UTC()
	sess := &models.Session{
		ID:           uuid.NewString(),
		UserID:       username,
		Role:         role,
		Token:        token.AccessToken,
		CreatedAt:    now,
		ExpiresAt:    now.Add(h.config.SessionTTL),
		LastActivity: now,
		IsActive:     true,
	}

	if err := h.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionStoreFailed, err)
	}

	h.logger.Info("session opened", map[string]interface{}{
		"sessionId": sess.ID,
		"userId":    sess.UserID,
		"role":      sess.Role,
	})

	return &Output{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Role:      sess.Role,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
	}, nil
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
