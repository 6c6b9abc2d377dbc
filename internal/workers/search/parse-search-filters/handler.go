// internal/workers/search/parse-search-filters/handler.go

// Package parsesearchfilters turns loosely-typed recruiter filter input into a
// typed SearchQuery. Filter payloads arrive from forms and BPMN variables, so
// tags may be a comma string or an array, and numbers may be floats or
// strings; everything is coerced here, once, at the boundary.
package parsesearchfilters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"talent-timeline-workers/internal/common/logger"
	"talent-timeline-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "parse-search-filters"

var (
	ErrInvalidFilterFormat = errors.New("INVALID_FILTER_FORMAT")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "INVALID_FILTER_FORMAT", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	raw := input.RawFilters
	if raw == nil {
		raw = make(map[string]interface{})
	}

	query := models.SearchQuery{}

	if tagsRaw, ok := raw["tags"]; ok {
		tags, err := parseStringList(tagsRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: tags: %v", ErrInvalidFilterFormat, err)
		}
		query.Tags = models.NormalizeTags(tags)
	}

	if minYearsRaw, ok := raw["minYears"]; ok {
		minYears, err := parseFloat(minYearsRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: minYears: %v", ErrInvalidFilterFormat, err)
		}
		if minYears < 0 {
			return nil, fmt.Errorf("%w: minYears must be >= 0, got %v", ErrInvalidFilterFormat, minYears)
		}
		query.MinYears = minYears
	}

	if recencyRaw, ok := raw["recencyMonths"]; ok {
		recency, err := parseFloat(recencyRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: recencyMonths: %v", ErrInvalidFilterFormat, err)
		}
		if recency < 0 {
			return nil, fmt.Errorf("%w: recencyMonths must be >= 0, got %v", ErrInvalidFilterFormat, recency)
		}
		query.RecencyMonths = int(recency)
	}

	if availRaw, ok := raw["availability"]; ok {
		if s, ok := availRaw.(string); ok {
			query.Availability = strings.TrimSpace(s)
		}
	}

	if locRaw, ok := raw["location"]; ok {
		if s, ok := locRaw.(string); ok {
			query.Location = strings.TrimSpace(s)
		}
	}

	if kwRaw, ok := raw["keyword"]; ok {
		if s, ok := kwRaw.(string); ok {
			query.Keyword = strings.TrimSpace(s)
		}
	}

	h.logger.Info("filters parsed", map[string]interface{}{
		"tags":          query.Tags,
		"minYears":      query.MinYears,
		"recencyMonths": query.RecencyMonths,
		"availability":  query.Availability,
		"location":      query.Location,
	})

	return &Output{Query: query}, nil
}

// parseStringList accepts a JSON array of strings or a single comma-separated
// string.
func parseStringList(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string element, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	case []string:
		return v, nil
	case string:
		return strings.Split(v, ","), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("expected array or comma string, got %T", raw)
	}
}

func parseFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
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
