package configs

import "go.uber.org/zap"

// NewLogger returns a JSON production logger for APP_ENV=production and a
// console development logger otherwise.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
