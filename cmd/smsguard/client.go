package main

import (
	"log/slog"

	"github.com/Veraticus/smsguard/internal/api"
	"github.com/Veraticus/smsguard/internal/config"
)

// newClient builds the prediction service client from resolved settings.
func newClient(s config.Settings, logger *slog.Logger) (*api.Client, error) {
	return api.NewClient(api.Config{
		BaseURL: s.APIURL,
		Timeout: s.APITimeout,
		Logger:  logger,
	})
}
