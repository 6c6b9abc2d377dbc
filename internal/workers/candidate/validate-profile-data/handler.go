// internal/workers/candidate/validate-profile-data/handler.go
package validateprofiledata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"talent-timeline-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "validate-profile-data"
)

var (
	ErrSchemaInvalid = errors.New("PROFILE_VALIDATION_FAILED")
)

// profileSchema mirrors what the candidate intake form collects. Availability
// buckets are fixed; anything else is rejected rather than guessed at.
const profileSchema = `{
	"type": "object",
	"required": ["name", "email"],
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 255},
		"email": {"type": "string", "format": "email"},
		"location": {"type": "string", "maxLength": 255},
		"availability": {
			"type": "string",
			"enum": ["immediate", "1 month", "3 months", "not open"]
		},
		"profileText": {"type": "string", "maxLength": 10000}
	}
}`

type Handler struct {
	config *Config
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(profileSchema))
	if err != nil {
		return nil, fmt.Errorf("compile profile schema: %w", err)
	}
	return &Handler{
		config: config,
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
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
		h.failJob(client, job, "PROFILE_VALIDATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

// execute reports validation problems in the output rather than as an error;
// an invalid profile is a normal business outcome the BPMN process branches on.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.Profile == nil {
		return &Output{
			Valid:  false,
			Errors: []string{"profile: payload is required"},
		}, nil
	}

	result, err := h.schema.Validate(gojsonschema.NewGoLoader(input.Profile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}

	if result.Valid() {
		return &Output{Valid: true}, nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}

	h.logger.Info("profile rejected", map[string]interface{}{
		"errors": msgs,
	})

	return &Output{
		Valid:  false,
		Errors: msgs,
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
