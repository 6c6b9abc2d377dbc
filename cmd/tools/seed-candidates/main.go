// cmd/tools/seed-candidates/main.go

// seed-candidates loads the demo candidate set into PostgreSQL and drops the
// search snapshot so the next query sees fresh data. It only seeds when the
// candidates table is empty unless --force is passed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"talent-timeline-workers/internal/common/config"
	"talent-timeline-workers/internal/common/database"
	"talent-timeline-workers/internal/common/logger"
	"talent-timeline-workers/internal/models"
)

type seedCandidate struct {
	candidate models.Candidate
	entries   []seedEntry
}

type seedEntry struct {
	title        string
	organization string
	startDate    string
	endDate      string
	tags         string
}

func seedData(now string) []seedCandidate {
	return []seedCandidate{
		{
			candidate: models.Candidate{ID: "C001", Name: "Ananya Gupta", Email: "ananya@example.com",
				Location: "Bengaluru", Availability: "1 month",
				ProfileText: "Senior ML Engineer - built data platforms and ML services", CreatedAt: now},
			entries: []seedEntry{
				{"ML Engineer", "Customer360", "2021-01-01", "2023-06-30", "python,pytorch,pandas,nlp,aws"},
				{"Data Engineer", "DataCorp", "2019-01-01", "2020-12-31", "python,spark,sql"},
			},
		},
		{
			candidate: models.Candidate{ID: "C002", Name: "Rahul Mehta", Email: "rahul@example.com",
				Location: "Hyderabad", Availability: "immediate",
				ProfileText: "Full-stack dev - React/Node/Kubernetes", CreatedAt: now},
			entries: []seedEntry{
				{"Senior Engineer", "ShopX", "2022-01-01", "", "react,node,aws,kubernetes"},
				{"Engineer", "WebStart", "2019-06-01", "2021-12-31", "javascript,react"},
			},
		},
		{
			candidate: models.Candidate{ID: "C003", Name: "Priya Iyer", Email: "priya@example.com",
				Location: "Chennai", Availability: "3 months",
				ProfileText: "Salesforce specialist with integrations experience", CreatedAt: now},
			entries: []seedEntry{
				{"Salesforce Consultant", "CloudCRM", "2020-03-01", "", "salesforce,soql,javascript"},
				{"Integration Lead", "BizSoft", "2017-05-01", "2019-12-31", "sap,salesforce,java"},
			},
		},
		{
			candidate: models.Candidate{ID: "C004", Name: "Vikram Singh", Email: "vikram@example.com",
				Location: "Pune", Availability: "immediate",
				ProfileText: "Java microservices & AWS; fintech projects", CreatedAt: now},
			entries: []seedEntry{
				{"Lead Developer", "FinBank", "2023-02-01", "", "java,spring,aws"},
				{"Developer", "AlphaTech", "2018-04-01", "2022-10-31", "java,microservices"},
			},
		},
		{
			candidate: models.Candidate{ID: "C005", Name: "Meera Shah", Email: "meera@example.com",
				Location: "Mumbai", Availability: "1 month",
				ProfileText: "Data engineer (Python, Spark, SQL) with streaming experience", CreatedAt: now},
			entries: []seedEntry{
				{"Data Engineer", "StreamWorks", "2021-08-01", "", "python,spark,kafka"},
				{"Analyst", "RetailCo", "2017-09-01", "2020-12-31", "sql,etl"},
			},
		},
	}
}

func main() {
	force := flag.Bool("force", false, "Seed even when candidates already exist")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()

	var count int
	if err := pg.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&count); err != nil {
		zapLog.Fatal("count candidates failed", zap.Error(err))
	}
	if count > 0 && !*force {
		fmt.Printf("candidates table already has %d rows, nothing to do (use --force to reseed)\n", count)
		os.Exit(0)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	seeded := 0
	for _, sc := range seedData(now) {
		c := sc.candidate
		_, err := pg.DB.ExecContext(ctx, `
			INSERT INTO candidates (id, name, email, location, availability, profile_text, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				email = EXCLUDED.email,
				location = EXCLUDED.location,
				availability = EXCLUDED.availability,
				profile_text = EXCLUDED.profile_text`,
			c.ID, c.Name, c.Email, c.Location, c.Availability, c.ProfileText, c.CreatedAt)
		if err != nil {
			zapLog.Fatal("insert candidate failed", zap.String("id", c.ID), zap.Error(err))
		}

		for _, e := range sc.entries {
			var endDate interface{}
			if e.endDate != "" {
				endDate = e.endDate
			}
			_, err := pg.DB.ExecContext(ctx, `
				INSERT INTO timeline_events (candidate_id, title, organization, start_date, end_date, tags)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				c.ID, e.title, e.organization, e.startDate, endDate, e.tags)
			if err != nil {
				zapLog.Fatal("insert timeline event failed", zap.String("candidateId", c.ID), zap.Error(err))
			}
		}
		seeded++
	}

	// Drop the cached snapshot so searches pick up the new rows.
	if redisClient, err := database.NewRedis(cfg.Database.Redis); err == nil {
		redisClient.Client.Del(ctx, "candidates:snapshot")
		redisClient.Close()
	} else {
		zapLog.Warn("redis unavailable, snapshot cache not invalidated", zap.Error(err))
	}

	fmt.Printf("seeded %d candidates\n", seeded)
}
