// internal/workers/candidate/create-candidate-record/handler_test.go
package createcandidaterecord

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

func TestHandler_Execute_CreatesNewCandidate(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()

	mock.ExpectExec("INSERT INTO candidates").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO candidate_audit_log").
		WillReturnResult(sqlmock.NewResult(1, 1))
	redisMock.ExpectDel("candidates:snapshot").SetVal(1)

	handler := NewHandler(createTestConfig(), db, rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Name:         "Asha Rao",
		Email:        "asha@example.com",
		Location:     "Bengaluru, India",
		Availability: "Immediate",
		ProfileText:  "Backend engineer, distributed systems.",
	})

	require.NoError(t, err)
	assert.True(t, output.Created)
	assert.NotEmpty(t, output.CandidateID)
	assert.NotEmpty(t, output.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Execute_UpsertsExistingCandidate(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()

	mock.ExpectExec("INSERT INTO candidates").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO candidate_audit_log").
		WillReturnResult(sqlmock.NewResult(1, 1))
	redisMock.ExpectDel("candidates:snapshot").SetVal(1)

	handler := NewHandler(createTestConfig(), db, rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		CandidateID: "C001",
		Name:        "Asha Rao",
		Email:       "asha@example.com",
	})

	require.NoError(t, err)
	assert.False(t, output.Created, "explicit id means update, not create")
	assert.Equal(t, "C001", output.CandidateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{"missing name", Input{Email: "a@b.com"}},
		{"whitespace name", Input{Name: "   ", Email: "a@b.com"}},
		{"missing email", Input{Name: "Asha"}},
		{"malformed email", Input{Name: "Asha", Email: "not-an-email"}},
	}

	db, _ := setupMockDB(t)
	defer db.Close()
	handler := NewHandler(createTestConfig(), db, nil, logger.NewNoOpLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &tt.input)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Nil(t, output)
		})
	}
}

func TestHandler_Execute_InsertFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO candidates").
		WillReturnError(sql.ErrConnDone)

	handler := NewHandler(createTestConfig(), db, nil, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		Name:  "Asha Rao",
		Email: "asha@example.com",
	})

	assert.ErrorIs(t, err, ErrInsertFailed)
	assert.Nil(t, output)
}

func TestHandler_Execute_AuditFailureIsNonFatal(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()

	mock.ExpectExec("INSERT INTO candidates").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO candidate_audit_log").
		WillReturnError(sql.ErrConnDone)
	redisMock.ExpectDel("candidates:snapshot").SetVal(1)

	handler := NewHandler(createTestConfig(), db, rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Name:  "Asha Rao",
		Email: "asha@example.com",
	})

	require.NoError(t, err, "audit log is best effort")
	assert.NotNil(t, output)
}
