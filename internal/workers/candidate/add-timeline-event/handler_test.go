// internal/workers/candidate/add-timeline-event/handler_test.go
package addtimelineevent

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"talent-timeline-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{
		Timeout:     5 * time.Second,
		SnapshotKey: "candidates:snapshot",
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func TestHandler_Execute_AddsEvent(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("C001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("INSERT INTO timeline_events").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	redisMock.ExpectDel("candidates:snapshot").SetVal(1)

	handler := NewHandler(createTestConfig(), db, rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		CandidateID:      "C001",
		Title:            "Backend Engineer",
		Organization:     "Acme",
		StartDate:        "2021-01-01",
		EndDate:          "2023-06-30",
		Tags:             []string{" Python ", "AWS", ""},
		Responsibilities: "Built billing pipelines",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), output.EventID)
	assert.Equal(t, "C001", output.CandidateID)
	assert.Equal(t, []string{"python", "aws"}, output.Tags,
		"tags normalized: lowercased, trimmed, empties dropped")
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Execute_UnknownCandidate(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	handler := NewHandler(createTestConfig(), db, nil, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		CandidateID: "ghost",
		Title:       "Engineer",
	})

	assert.ErrorIs(t, err, ErrCandidateNotFound)
	assert.Nil(t, output)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ValidationErrors(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	handler := NewHandler(createTestConfig(), db, nil, logger.NewNoOpLogger())

	tests := []struct {
		name  string
		input Input
	}{
		{"missing candidate id", Input{Title: "Engineer"}},
		{"missing title", Input{CandidateID: "C001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Execute(context.Background(), &tt.input)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestHandler_Execute_InsertFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("C001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("INSERT INTO timeline_events").
		WillReturnError(sql.ErrConnDone)

	handler := NewHandler(createTestConfig(), db, nil, logger.NewNoOpLogger())

	_, err := handler.Execute(context.Background(), &Input{
		CandidateID: "C001",
		Title:       "Engineer",
	})

	assert.ErrorIs(t, err, ErrInsertFailed)
}
