// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"talent-timeline-workers/internal/common/camunda"
	"talent-timeline-workers/internal/common/config"
	"talent-timeline-workers/internal/common/database"
	"talent-timeline-workers/internal/common/logger"
	"talent-timeline-workers/internal/models"

	addtimelineevent "talent-timeline-workers/internal/workers/candidate/add-timeline-event"
	createcandidaterecord "talent-timeline-workers/internal/workers/candidate/create-candidate-record"
	validateprofiledata "talent-timeline-workers/internal/workers/candidate/validate-profile-data"
	queryelasticsearch "talent-timeline-workers/internal/workers/data-access/query-elasticsearch"
	querypostgresql "talent-timeline-workers/internal/workers/data-access/query-postgresql"
	exportsearchresults "talent-timeline-workers/internal/workers/search/export-search-results"
	parsesearchfilters "talent-timeline-workers/internal/workers/search/parse-search-filters"
	searchcandidates "talent-timeline-workers/internal/workers/search/search-candidates"
)

var (
	zeebeClient *camunda.Client
	zapLog      *zap.Logger
)

func TestMain(m *testing.M) {
	if os.Getenv("E2E_TESTS") == "" {
		fmt.Println("E2E_TESTS not set, skipping e2e suite")
		os.Exit(0)
	}

	// NewClient verifies the connection with a topology request.
	var err error
	zeebeClient, err = camunda.NewClient("localhost:26500")
	if err != nil {
		panic(fmt.Sprintf("failed to connect to Zeebe: %v", err))
	}

	zapLog, _ = zap.NewProduction()

	code := m.Run()

	zeebeClient.Close()
	os.Exit(code)
}

func TestFullE2E(t *testing.T) {
	_, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assertAllServicesConnectivity(t, cfg)
	createDatabaseTables(t, cfg)
	testAllWorkers(t, cfg, zapLog)
}

func assertAllServicesConnectivity(t *testing.T, cfg *config.Config) {
	t.Log("checking service connectivity...")

	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.URL = "http://localhost:9200"

	db, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	assert.NoError(t, db.Ping(context.Background()), "PostgreSQL ping failed")
	db.Close()

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "Redis client creation failed")
	assert.NoError(t, rdb.Ping(context.Background()), "Redis ping failed")
	rdb.Close()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Database.Elasticsearch.GetURL()},
	})
	require.NoError(t, err, "Elasticsearch client creation failed")
	res, err := es.Info()
	require.NoError(t, err, "Elasticsearch info request failed")
	assert.False(t, res.IsError(), "Elasticsearch returned error")
	res.Body.Close()

	assert.NoError(t, zeebeClient.HealthCheck(context.Background()), "Zeebe health check failed")
}

func createDatabaseTables(t *testing.T, cfg *config.Config) {
	t.Log("creating database tables and inserting test data...")

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer dbClient.Close()

	db := dbClient.GetDB()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS candidates (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			location VARCHAR(255),
			availability VARCHAR(50),
			profile_text TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS timeline_events (
			id SERIAL PRIMARY KEY,
			candidate_id VARCHAR(255) REFERENCES candidates(id),
			title VARCHAR(255) NOT NULL,
			organization VARCHAR(255),
			start_date DATE NOT NULL,
			end_date DATE,
			tags TEXT,
			responsibilities TEXT,
			description TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		_, err := db.ExecContext(context.Background(), query)
		if err != nil {
			t.Logf("Warning: Failed to create table: %v", err)
		}
	}

	testData := []string{
		`INSERT INTO candidates (id, name, email, location, availability, profile_text)
		 VALUES ('E2E001', 'E2E Candidate', 'e2e@example.com', 'Bengaluru', 'immediate', 'python and aws background')
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO timeline_events (candidate_id, title, organization, start_date, end_date, tags)
		 SELECT 'E2E001', 'Engineer', 'TestCo', '2021-01-01', NULL, 'python,aws'
		 WHERE NOT EXISTS (SELECT 1 FROM timeline_events WHERE candidate_id = 'E2E001')`,
	}

	for _, query := range testData {
		_, err := db.ExecContext(context.Background(), query)
		if err != nil {
			t.Logf("Warning: Failed to insert test data: %v", err)
		}
	}
}

func testAllWorkers(t *testing.T, cfg *config.Config, log *zap.Logger) {
	t.Log("running workers against real services...")

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer dbClient.Close()
	db := dbClient.GetDB()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Database.Elasticsearch.GetURL()},
	})
	require.NoError(t, err)

	rdbClient, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rdbClient.Close()
	rdb := rdbClient.GetClient()

	testCases := []struct {
		name   string
		testFn func(*testing.T, *config.Config, *zap.Logger, *sql.DB, *elasticsearch.Client, *redis.Client)
	}{
		{"create-candidate-record", testCreateCandidateRecord},
		{"add-timeline-event", testAddTimelineEvent},
		{"validate-profile-data", testValidateProfileData},
		{"parse-search-filters", testParseSearchFilters},
		{"search-candidates", testSearchCandidates},
		{"export-search-results", testExportSearchResults},
		{"query-postgresql", testQueryPostgreSQL},
		{"query-elasticsearch", testQueryElasticsearch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.testFn(t, cfg, log, db, es, rdb)
		})
	}
}

func testCreateCandidateRecord(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := createcandidaterecord.NewHandler(&createcandidaterecord.Config{
		Timeout:     10 * time.Second,
		SnapshotKey: "candidates:snapshot",
	}, db, rdb, logger.NewZapAdapter(log))

	uniqueID := fmt.Sprintf("E2E-%d", time.Now().UnixNano())
	result, err := handler.Execute(context.Background(), &createcandidaterecord.Input{
		CandidateID:  uniqueID,
		Name:         "E2E Created",
		Email:        uniqueID + "@example.com",
		Location:     "Pune",
		Availability: "Immediate",
		ProfileText:  "created during e2e run",
	})
	assert.NoError(t, err)
	if result != nil {
		assert.Equal(t, uniqueID, result.CandidateID)
		assert.True(t, result.Created)
	}
}

func testAddTimelineEvent(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := addtimelineevent.NewHandler(&addtimelineevent.Config{
		Timeout:     10 * time.Second,
		SnapshotKey: "candidates:snapshot",
	}, db, rdb, logger.NewZapAdapter(log))

	result, err := handler.Execute(context.Background(), &addtimelineevent.Input{
		CandidateID:  "E2E001",
		Title:        "Senior Engineer",
		Organization: "TestCo",
		StartDate:    "2023-01-01",
		Tags:         []string{"go", "kubernetes"},
	})
	assert.NoError(t, err)
	if result != nil {
		assert.Equal(t, "E2E001", result.CandidateID)
		assert.NotZero(t, result.EventID)
	}
}

func testValidateProfileData(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler, err := validateprofiledata.NewHandler(&validateprofiledata.Config{
		Timeout: 5 * time.Second,
	}, logger.NewZapAdapter(log))
	require.NoError(t, err)

	result, err := handler.Execute(context.Background(), &validateprofiledata.Input{
		Profile: map[string]interface{}{
			"name":  "E2E Candidate",
			"email": "e2e@example.com",
		},
	})
	assert.NoError(t, err)
	if result != nil {
		assert.True(t, result.Valid)
	}
}

func testParseSearchFilters(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := parsesearchfilters.NewHandler(&parsesearchfilters.Config{
		Timeout: 5 * time.Second,
	}, logger.NewZapAdapter(log))

	result, err := handler.Execute(context.Background(), &parsesearchfilters.Input{
		RawFilters: map[string]interface{}{
			"skills":       "Python, AWS",
			"availability": "Immediate",
			"keyword":      "engineer",
		},
	})
	assert.NoError(t, err)
	if result != nil {
		assert.Contains(t, result.Query.Tags, "python")
		assert.Equal(t, "immediate", result.Query.Availability)
	}
}

func testSearchCandidates(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := searchcandidates.NewHandler(&searchcandidates.Config{
		Timeout:     10 * time.Second,
		SnapshotKey: "candidates:snapshot",
		CacheTTL:    60 * time.Second,
		MaxResults:  50,
	}, db, rdb, logger.NewZapAdapter(log))

	result, err := handler.Execute(context.Background(), &searchcandidates.Input{
		Query: models.SearchQuery{Tags: []string{"python"}},
	})
	assert.NoError(t, err)
	if result != nil {
		assert.GreaterOrEqual(t, result.TotalFound, 1)
	}
}

func testExportSearchResults(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := exportsearchresults.NewHandler(&exportsearchresults.Config{
		Timeout: 5 * time.Second,
	}, logger.NewZapAdapter(log))

	result, err := handler.Execute(context.Background(), &exportsearchresults.Input{
		Results: []models.SearchResult{
			{
				CandidateID:     "E2E001",
				Name:            "E2E Candidate",
				Email:           "e2e@example.com",
				Location:        "Bengaluru",
				Availability:    "immediate",
				YearsExperience: 2.5,
				MatchScore:      1.0,
				MatchedTags:     []string{"python"},
			},
		},
	})
	assert.NoError(t, err)
	if result != nil {
		assert.Equal(t, 1, result.RowCount)
		assert.Contains(t, result.CSV, "E2E001")
	}
}

func testQueryPostgreSQL(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := querypostgresql.NewHandler(&querypostgresql.Config{
		Timeout: 5 * time.Second,
	}, db, logger.NewZapAdapter(log))

	result, err := handler.Execute(context.Background(), &querypostgresql.Input{
		QueryType: "count_candidates",
	})
	assert.NoError(t, err)
	assert.NotNil(t, result)

	_, err = handler.Execute(context.Background(), &querypostgresql.Input{
		QueryType: "unknown",
	})
	assert.Error(t, err)
}

func testQueryElasticsearch(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := queryelasticsearch.NewHandler(&queryelasticsearch.Config{
		Timeout:      10 * time.Second,
		DefaultIndex: "candidates",
	}, es, logger.NewZapAdapter(log))

	_, err := handler.Execute(context.Background(), &queryelasticsearch.Input{
		IndexName: "nonexistent",
		QueryType: "candidate_index",
	})
	assert.Error(t, err)
}

func BenchmarkHandler_ParseSearchFilters(b *testing.B) {
	handler := parsesearchfilters.NewHandler(&parsesearchfilters.Config{
		Timeout: 5 * time.Second,
	}, logger.NewStructured("info", "json"))

	input := &parsesearchfilters.Input{
		RawFilters: map[string]interface{}{
			"skills":        "python, spark, kafka",
			"location":      "Mumbai",
			"availability":  "1 month",
			"minYears":      3,
			"recencyMonths": 24,
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_SearchCandidates(b *testing.B) {
	cfg, _ := config.Load()
	dbClient, _ := database.NewPostgres(cfg.Database.Postgres)
	defer dbClient.Close()
	db := dbClient.GetDB()

	rdbClient, _ := database.NewRedis(cfg.Database.Redis)
	defer rdbClient.Close()
	rdb := rdbClient.GetClient()

	handler := searchcandidates.NewHandler(&searchcandidates.Config{
		Timeout:     10 * time.Second,
		SnapshotKey: "candidates:snapshot",
		CacheTTL:    60 * time.Second,
		MaxResults:  50,
	}, db, rdb, logger.NewStructured("info", "json"))

	input := &searchcandidates.Input{
		Query: models.SearchQuery{
			Keyword: "engineer",
			Tags:    []string{"python", "aws"},
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_QueryPostgreSQL(b *testing.B) {
	cfg, _ := config.Load()
	dbClient, _ := database.NewPostgres(cfg.Database.Postgres)
	defer dbClient.Close()
	db := dbClient.GetDB()

	handler := querypostgresql.NewHandler(&querypostgresql.Config{
		Timeout: 5 * time.Second,
	}, db, logger.NewStructured("info", "json"))

	input := &querypostgresql.Input{
		QueryType:   "get_candidate_timeline",
		CandidateID: "E2E001",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
