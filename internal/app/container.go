package app

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/tautulli-snitch-go/internal/config"
	"github.com/kapu/tautulli-snitch-go/internal/enrich"
	"github.com/kapu/tautulli-snitch-go/internal/report"
	"github.com/kapu/tautulli-snitch-go/internal/tautulli"
)

// Container wires the collaborators one report run needs.
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Client    *tautulli.Client
	Annotator *enrich.GeoIPAnnotator
	Report    *report.Service
}

// Build assembles the application from validated configuration.
func Build(cfg *config.Config, logger *zap.Logger) *Container {
	httpClient := &http.Client{Timeout: cfg.Tautulli.Timeout}
	client := tautulli.NewClient(httpClient, cfg.Tautulli.BaseURL, cfg.Tautulli.APIKey, logger)
	annotator := enrich.NewGeoIPAnnotator(cfg.GeoIP.CountryDBPath, logger)

	var ipAnnotator report.IPAnnotator
	if annotator.Enabled() {
		ipAnnotator = annotator
	}

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Client:    client,
		Annotator: annotator,
		Report:    report.NewService(client, ipAnnotator, cfg.Tautulli.PageSize, logger),
	}
}

// Close releases resources held by the container.
func (c *Container) Close() {
	_ = c.Annotator.Close()
}
