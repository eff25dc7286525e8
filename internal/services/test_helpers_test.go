package services_test

import (
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/logger"
)

func init() {
	// Initialize logger for tests
	_ = logger.Initialize(logger.Config{Level: "info", Environment: "test"})
}
