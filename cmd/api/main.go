package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"optionsdesk/db"
	"optionsdesk/internal/app"
	"optionsdesk/internal/config"
	"optionsdesk/internal/handler"
	"optionsdesk/internal/repository"
)

func main() {

	godotenv.Load()

	cfg := config.Load()
	app.SetupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		slog.Warn("credentials incomplete, analyze requests will report failure", "error", err)
	}

	service, err := app.NewService(cfg)
	if err != nil {
		log.Fatalf("error configuring analysis pipeline: %v", err)
	}

	analysisHandler := handler.NewAnalysisHandler(service, cfg.Validate)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("request panicked", "path", c.Request.URL.Path, "panic", recovered)
		c.Header("Access-Control-Allow-Origin", "*")
		c.AbortWithStatusJSON(http.StatusOK, handler.Failure(fmt.Sprintf("internal error: %v", recovered), time.Now()))
	}))

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
	}))

	r.GET("/api/analyze", analysisHandler.GetAnalysis)
	r.GET("/analyze", analysisHandler.GetAnalysis)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var archive handler.ReportStore
	if cfg.DatabaseURL != "" {
		if err := db.Connect(cfg.DatabaseURL); err != nil {
			log.Fatalf("error connecting to DB: %v", err)
		}
		defer db.Close()

		reportRepo := repository.NewReportRepository(db.DB)
		reportHandler := handler.NewReportHandler(reportRepo)
		archive = reportRepo

		r.GET("/reports/latest", reportHandler.GetLatestReport)
		r.GET("/reports", reportHandler.GetReports)
	}
	r.GET("/health", handler.GetHealth(archive))

	slog.Info("starting server", "port", cfg.Port, "archive", cfg.DatabaseURL != "")

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
