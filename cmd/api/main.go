package main

import (
	"fmt"
	"log/slog"
	"os"

	"blockload-solver/internal/api/handlers"
	"blockload-solver/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	solveHandler := handlers.NewSolveHandler(nil)
	fleetHandler := handlers.NewFleetHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/solve", solveHandler.RunSolve)
		api.GET("/fleets", fleetHandler.ListFleets)
	}

	addr := fmt.Sprintf(":%s", port)
	slog.Info("starting API server", "addr", addr, "fleet_dir", fleetHandler.GetFleetDir())
	if err := router.Run(addr); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
