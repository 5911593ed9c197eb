package logger

import (
	"go.uber.org/zap"
)

// NewNamed creates a zap logger configured for the given environment and
// tagged with the service name. Development gets a human-readable console
// encoder; everything else logs JSON at info level.
func NewNamed(appEnv, service string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if appEnv == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return log.Named(service), nil
}
