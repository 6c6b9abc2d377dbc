// internal/workers/search/export-search-results/handler.go

// Package exportsearchresults renders a ranked result set as a CSV document
// for recruiters to download. The CSV is returned inline as a process
// variable; result sets are small enough that no object storage is involved.
package exportsearchresults

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"talent-timeline-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "export-search-results"
)

var (
	ErrExportFailed = errors.New("EXPORT_FAILED")
)

var csvHeader = []string{
	"candidate_id", "name", "email", "location", "availability",
	"years_experience", "match_score", "matched_tags",
}

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
		h.failJob(client, job, "EXPORT_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	for _, r := range input.Results {
		record := []string{
			r.CandidateID,
			r.Name,
			r.Email,
			r.Location,
			r.Availability,
			strconv.FormatFloat(r.YearsExperience, 'f', 2, 64),
			strconv.FormatFloat(r.MatchScore, 'f', 2, 64),
			strings.Join(r.MatchedTags, ";"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	filename := fmt.Sprintf("shortlist_%s.csv", time.Now().UTC().Format("20060102_150405"))

	h.logger.Info("export completed", map[string]interface{}{
		"rows":     len(input.Results),
		"filename": filename,
	})

	return &Output{
		CSV:      buf.String(),
		RowCount: len(input.Results),
		Filename: filename,
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
