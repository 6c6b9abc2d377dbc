// internal/workers/search/export-search-results/handler_test.go
package exportsearchresults

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"talent-timeline-workers/internal/common/logger"
	"talent-timeline-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute_WritesHeaderAndRows(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Results: []models.SearchResult{
			{
				CandidateID:     "C001",
				Name:            "Asha Rao",
				Email:           "asha@example.com",
				Location:        "Bengaluru, India",
				Availability:    "immediate",
				YearsExperience: 5.004,
				MatchScore:      1,
				MatchedTags:     []string{"python", "aws"},
			},
			{
				CandidateID:     "C002",
				Name:            "Dev Mehta",
				Email:           "dev@example.com",
				YearsExperience: 2.5,
				MatchScore:      0.5,
				MatchedTags:     []string{"python"},
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, output.RowCount)
	assert.True(t, strings.HasPrefix(output.Filename, "shortlist_"))
	assert.True(t, strings.HasSuffix(output.Filename, ".csv"))

	records, err := csv.NewReader(strings.NewReader(output.CSV)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{
		"C001", "Asha Rao", "asha@example.com", "Bengaluru, India", "immediate",
		"5.00", "1.00", "python;aws",
	}, records[1])
	assert.Equal(t, "0.50", records[2][6])
}

func TestHandler_Execute_EmptyResultSet(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Zero(t, output.RowCount)

	records, err := csv.NewReader(strings.NewReader(output.CSV)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}

func TestHandler_Execute_QuotesFieldsWithCommas(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		Results: []models.SearchResult{
			{CandidateID: "C003", Name: `Rao, "AJ"`, Location: "Pune, India"},
		},
	})

	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(output.CSV)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `Rao, "AJ"`, records[1][1], "round-trips through CSV quoting")
}
