package main

import (
	"fmt"
	"os"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/config"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/db"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		ServiceName: "crystal-detailing-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !cfg.Database.Configured() {
		logger.Error("DATABASE_URL is not set; nothing to migrate")
		os.Exit(1)
	}

	logger.Info("Starting database migrations",
		zap.String("database", maskDatabaseURL(cfg.Database.URL)))

	if err := db.RunMigrations(cfg.Database.URL, "file://migrations"); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

// maskDatabaseURL masks the password in database URL for logging
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:20] + "***"
	}
	return "***"
}
