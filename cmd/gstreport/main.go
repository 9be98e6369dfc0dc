// cmd/gstreport/main.go
package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/api/handlers"
	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/api/responses"
	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/config"
	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/core/report"
)

func main() {
	_ = godotenv.Load()
	responses.InitLogger()

	configPath := os.Getenv("GST_REPORT_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	reportService := report.NewService(cfg, responses.Logger())
	reportHandler := handlers.NewReportHandler(reportService)

	router := gin.Default()
	router.Use(cors.Default())

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/reports/gstr1/excel", reportHandler.HandleExcelReport)
		apiV1.POST("/reports/gstr1/json", reportHandler.HandleJSONReport)
		apiV1.POST("/reports/summary", reportHandler.HandleSummary)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "gst-report-generator"})
	})

	log.Printf("GST report service listening on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start the report server: ", err)
	}
}
