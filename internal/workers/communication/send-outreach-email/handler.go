// internal/workers/communication/send-outreach-email/handler.go

// Package sendoutreachemail delivers recruiter outreach to a matched
// candidate over SES, with an optional SNS text message alongside. When the
// recruiter does not supply a body, the worker renders the standard outreach
// template from the candidate's name and matched skills.
package sendoutreachemail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"talent-timeline-workers/internal/common/logger"
	"talent-timeline-workers/internal/common/validation"
)

const (
	TaskType = "send-outreach-email"
)

var (
	ErrValidationFailed   = errors.New("VALIDATION_FAILED")
	ErrOutreachSendFailed = errors.New("OUTREACH_SEND_FAILED")
)

// Mailer is the slice of the SES client this worker needs.
type Mailer interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// Texter is the slice of the SNS client this worker needs.
type Texter interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config *Config
	mailer Mailer
	texter Texter
	logger logger.Logger
}

// NewHandler builds the worker. texter may be nil when SMS is not configured.
func NewHandler(config *Config, mailer Mailer, texter Texter, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		mailer: mailer,
		texter: texter,
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
		errorCode := "OUTREACH_SEND_FAILED"
		if errors.Is(err, ErrValidationFailed) {
			errorCode = "VALIDATION_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.CandidateName) == "" {
		return nil, fmt.Errorf("%w: candidateName is required", ErrValidationFailed)
	}
	if !validation.ValidateEmail(input.CandidateEmail) {
		return nil, fmt.Errorf("%w: invalid candidate email %q", ErrValidationFailed, input.CandidateEmail)
	}

	subject := input.Subject
	if subject == "" {
		subject = fmt.Sprintf("Opportunity at %s", orPlaceholder(input.Company, "[Company]"))
	}

	body := input.Body
	if body == "" {
		body = renderTemplate(input)
	}

	result, err := h.mailer.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{input.CandidateEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutreachSendFailed, err)
	}

	messageID := ""
	if result != nil && result.MessageId != nil {
		messageID = *result.MessageId
	}

	smsSent := false
	if input.SMSPhone != "" && h.texter != nil {
		smsBody := fmt.Sprintf("Hi %s, %s from %s would like to talk about a role. Check your email for details.",
			input.CandidateName,
			orPlaceholder(input.RecruiterName, "a recruiter"),
			orPlaceholder(input.Company, "our team"))
		_, err := h.texter.Publish(ctx, &sns.PublishInput{
			PhoneNumber: aws.String(input.SMSPhone),
			Message:     aws.String(smsBody),
		})
		if err != nil {
			h.logger.Warn("sms publish failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			smsSent = true
		}
	}

	h.logger.Info("outreach sent", map[string]interface{}{
		"to":        input.CandidateEmail,
		"messageId": messageID,
		"smsSent":   smsSent,
	})

	return &Output{
		Success:   true,
		MessageID: messageID,
		SMSSent:   smsSent,
		SentAt:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// renderTemplate produces the stock outreach message recruiters start from.
func renderTemplate(input *Input) string {
	skills := strings.Join(input.Skills, ", ")
	if skills == "" {
		skills = "your field"
	}
	return fmt.Sprintf(`Hi %s,

I'm %s, a recruiter at %s. Based on your experience with %s, we think you could be a great fit for a role on our team. Are you available for a short call?

Regards,
%s`,
		input.CandidateName,
		orPlaceholder(input.RecruiterName, "[Your Name]"),
		orPlaceholder(input.Company, "[Company]"),
		skills,
		orPlaceholder(input.RecruiterName, "[Your Name]"))
}

func orPlaceholder(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
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
