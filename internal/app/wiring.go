package app

import (
	"fmt"

	"watermark-service/internal/config"
	"watermark-service/internal/infra/s3"
	"watermark-service/internal/pipeline"
	"watermark-service/internal/repository/postgres"
	"watermark-service/pkg/logger"
	"watermark-service/pkg/metrics"
)

// InitializeService wires up all dependencies and returns a configured Service
func InitializeService() (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	catalog := postgres.NewAssetRepository(db)

	// Backend selection happens once here; the orchestrator never branches
	// on backend identity afterwards.
	var composer pipeline.Composer
	switch cfg.Watermark.Backend {
	case config.BackendMagick:
		composer = pipeline.NewMagickComposer(cfg.Watermark.MagickPath, log)
	default:
		composer = pipeline.NewNativeComposer(log)
	}

	orchestrator := pipeline.NewOrchestrator(
		s3Client,
		catalog,
		composer,
		cfg.Watermark.PipelineTimeout,
		cfg.Watermark.MaxInputSize,
		log,
	)

	return &Service{
		config:       cfg,
		db:           db,
		catalog:      catalog,
		orchestrator: orchestrator,
		metrics:      metrics.New(),
	}, nil
}
