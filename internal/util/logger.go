package util

import "go.uber.org/zap"

// NewLogger returns the production logger for env "production" and the development one otherwise.
func NewLogger(env string) *zap.SugaredLogger {
	var logger *zap.SugaredLogger

	if env == "production" {
		logger = zap.Must(zap.NewProduction()).Sugar()
	} else {
		logger = zap.Must(zap.NewDevelopment()).Sugar()
	}

	return logger
}
