package deployments

import (
	"mangrove-addresses/internal/config"
	domainRepo "mangrove-addresses/internal/domain/repository"

	"go.uber.org/zap"
)

// NewRepository picks the deployments source: a local directory when configured, the remote URL otherwise.
func NewRepository(cfg config.Config, logger *zap.Logger) domainRepo.DeploymentRepository {
	if cfg.Source.Dir != "" {
		logger.Info("Using local deployments data set", zap.String("dir", cfg.Source.Dir))
		return NewFileRepository(cfg.Source.Dir, logger)
	}
	logger.Info("Using remote deployments data set", zap.String("url", cfg.Source.URL))
	return NewHTTPRepository(cfg.Source, cfg.Cache, logger)
}
