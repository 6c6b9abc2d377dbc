// internal/workers/auth/auth-logout/handler.go

// Package authlogout closes sessions. It can drop a single session or every
// session a user holds, puts the access token on a revocation denylist, and
// tells Keycloak to invalidate the refresh token when one is supplied. The
// Keycloak call is best effort; the Redis-side invalidation is what actually
// logs the user out of this system.
package authlogout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"talent-timeline-workers/internal/common/auth"
	"talent-timeline-workers/internal/common/logger"
	"talent-timeline-workers/internal/common/validation"
)

const (
	TaskType = "auth-logout"
)

var (
	ErrValidationFailed   = errors.New("VALIDATION_FAILED")
	ErrSessionStoreFailed = errors.New("SESSION_STORE_FAILED")
)

// SessionStore is the slice of the session store this worker needs.
type SessionStore interface {
	Delete(ctx context.Context, userID, sessionID string) error
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
	RevokeToken(ctx context.Context, token string, ttl time.Duration) error
}

// TokenRevoker invalidates a refresh token upstream and introspects access
// tokens so the denylist TTL can match the token's remaining lifetime.
type TokenRevoker interface {
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(ctx context.Context, token string) (*auth.TokenInfo, error)
}

type Handler struct {
	config   *Config
	sessions SessionStore
	revoker  TokenRevoker
	logger   logger.Logger
}

// NewHandler builds the worker. revoker may be nil when no identity provider
// is configured.
func NewHandler(config *Config, sessions SessionStore, revoker TokenRevoker, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		sessions: sessions,
		revoker:  revoker,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &raw); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}
	if result := validation.ValidateInput(raw, GetInputSchema()); !result.Valid {
		h.failJob(client, job, "VALIDATION_FAILED", strings.Join(result.GetErrorMessages(), "; "))
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "SESSION_STORE_FAILED"
		if errors.Is(err, ErrValidationFailed) {
			errorCode = "VALIDATION_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidationFailed)
	}
	if !input.LogoutAll && input.SessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required unless logoutAll is set", ErrValidationFailed)
	}

	var invalidated int
	if input.LogoutAll {
		count, err := h.sessions.DeleteAllForUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSessionStoreFailed, err)
		}
		invalidated = count
	} else {
		if err := h.sessions.Delete(ctx, userID, input.SessionID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSessionStoreFailed, err)
		}
		invalidated = 1
	}

	tokenRevoked := false
	if input.Token != "" {
		if err := h.sessions.RevokeToken(ctx, input.Token, h.denylistTTL(ctx, input.Token)); err != nil {
			h.logger.Warn("token revocation failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			tokenRevoked = true
		}
	}

	if input.RefreshToken != "" && h.revoker != nil {
		if err := h.revoker.Logout(ctx, input.RefreshToken); err != nil {
			h.logger.Warn("keycloak logout failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	h.logger.Info("logout completed", map[string]interface{}{
		"userId":              userID,
		"sessionsInvalidated": invalidated,
		"tokenRevoked":        tokenRevoked,
		"logoutAll":           input.LogoutAll,
		"reason":              input.Reason,
	})

	return &Output{
		Success:             true,
		SessionsInvalidated: invalidated,
		TokenRevoked:        tokenRevoked,
		LogoutAt:            time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// denylistTTL asks Keycloak how long the access token is still good for, so
// the denylist entry expires with the token instead of sitting around for the
// full configured window. Introspection failures (including an already-dead
// token) fall back to the configured TTL; denylisting a dead token is harmless.
func (h *Handler) denylistTTL(ctx context.Context, token string) time.Duration {
	if h.revoker == nil {
		return h.config.TokenRevocationTTL
	}

	info, err := h.revoker.ValidateToken(ctx, token)
	if err != nil {
		h.logger.Warn("token introspection failed, using configured denylist ttl", map[string]interface{}{
			"error": err.Error(),
		})
		return h.config.TokenRevocationTTL
	}

	if info.Exp > 0 {
		if remaining := time.Until(time.Unix(info.Exp, 0)); remaining > 0 {
			return remaining
		}
	}
	return h.config.TokenRevocationTTL
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
