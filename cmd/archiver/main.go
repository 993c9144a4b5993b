package main

import (
	"context"
	"log"
	"log/slog"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"optionsdesk/db"
	"optionsdesk/internal/app"
	"optionsdesk/internal/config"
	"optionsdesk/internal/repository"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	app.SetupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("error validating config: %v", err)
	}

	err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	service, err := app.NewService(cfg)
	if err != nil {
		log.Fatalf("error configuring analysis pipeline: %v", err)
	}

	report := service.Run(context.Background(), time.Now())
	archived := report.MarketReport()

	reportRepo := repository.NewReportRepository(db.DB)
	err = reportRepo.SaveReport(&archived)
	if err != nil {
		log.Fatalf("error saving report: %v", err)
	}

	slog.Info("report saved successfully",
		"report_id", archived.ID,
		"request_id", archived.RequestID,
		"sources_available", archived.SourcesAvailable,
		"sources_total", archived.SourcesTotal,
	)

	if cfg.RedisURL == "" {
		return
	}

	err = db.ConnectRedis(cfg.RedisURL)
	if err != nil {
		slog.Error("error connecting to Redis, report not queued", "error", err)
		return
	}
	defer db.CloseRedis()

	err = db.PushToQueue(db.ReportQueueKey, strconv.FormatInt(archived.ID, 10))
	if err != nil {
		slog.Error("error queueing report", "report_id", archived.ID, "error", err)
		return
	}

	queueLen, err := db.GetQueueLength(db.ReportQueueKey)
	if err != nil {
		slog.Warn("error reading queue length", "error", err)
		return
	}
	slog.Info("report queued", "report_id", archived.ID, "queue_length", queueLen)
}
