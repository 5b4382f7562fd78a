package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"watermark-service/internal/config"
	"watermark-service/internal/domain/asset"
	"watermark-service/internal/domain/watermark"
	"watermark-service/internal/pipeline"
	"watermark-service/internal/repository/postgres"
	apperrors "watermark-service/pkg/errors"
	"watermark-service/pkg/metrics"
)

// Service is the watermarking application: it validates requests, drives
// the pipeline, and owns the database handle.
type Service struct {
	config       *config.Config
	db           *postgres.DB
	catalog      *postgres.AssetRepository
	orchestrator *pipeline.Orchestrator
	metrics      *metrics.Metrics
}

// NewService creates and initializes a new Service instance
// This is a convenience wrapper around InitializeService
func NewService() (*Service, error) {
	return InitializeService()
}

// Config exposes the loaded configuration to the transport layer.
func (s *Service) Config() *config.Config {
	return s.config
}

// Metrics exposes the pipeline counters to the transport layer.
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// Close releases the service's database handle.
func (s *Service) Close() {
	s.db.Close()
}

// ApplyWatermark applies one logo to one source asset.
func (s *Service) ApplyWatermark(ctx context.Context, req *ApplyWatermarkRequest) (*ApplyWatermarkResponse, error) {
	if err := requireIDs(req.OwnerID, req.SourceAssetID, req.LogoAssetID); err != nil {
		return nil, err
	}

	result, err := s.apply(ctx, pipeline.Request{
		OwnerID:       req.OwnerID,
		SourceAssetID: req.SourceAssetID,
		Steps:         []pipeline.Step{{LogoAssetID: req.LogoAssetID, Config: effectiveConfig(req.Config)}},
	})
	if err != nil {
		return nil, err
	}

	return toResponse(result), nil
}

// ApplyWatermarkBatch applies each step's logo in order and records one
// derived asset for the whole chain.
func (s *Service) ApplyWatermarkBatch(ctx context.Context, req *ApplyWatermarkBatchRequest) (*ApplyWatermarkResponse, error) {
	if err := requireIDs(req.OwnerID, req.SourceAssetID); err != nil {
		return nil, err
	}
	if len(req.Steps) == 0 {
		return nil, apperrors.InvalidConfig("batch request requires at least one step")
	}

	steps := make([]pipeline.Step, 0, len(req.Steps))
	for i, step := range req.Steps {
		if step.LogoAssetID == uuid.Nil {
			return nil, apperrors.InvalidConfig(fmt.Sprintf("step %d is missing a logo asset id", i))
		}
		steps = append(steps, pipeline.Step{
			LogoAssetID: step.LogoAssetID,
			Config:      effectiveConfig(step.Config),
		})
	}

	result, err := s.apply(ctx, pipeline.Request{
		OwnerID:       req.OwnerID,
		SourceAssetID: req.SourceAssetID,
		Steps:         steps,
	})
	if err != nil {
		return nil, err
	}

	return toResponse(result), nil
}

// ListWatermarks returns the derived assets recorded for a source asset,
// newest first, scoped to the requesting owner.
func (s *Service) ListWatermarks(ctx context.Context, ownerID, assetID uuid.UUID) ([]WatermarkedAsset, error) {
	if err := requireIDs(ownerID, assetID); err != nil {
		return nil, err
	}

	assets, err := s.catalog.ListDerived(ctx, assetID, ownerID)
	if err != nil {
		return nil, err
	}

	return toWatermarkedAssets(assets), nil
}

// apply runs the pipeline and records the outcome in the counters.
func (s *Service) apply(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	start := time.Now()
	s.metrics.JobStarted()

	result, err := s.orchestrator.Apply(ctx, req)
	s.metrics.JobFinished(outcomeFor(err), time.Since(start))

	return result, err
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, apperrors.ErrAssetNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, apperrors.ErrFileSizeExceeded):
		return metrics.OutcomeTooLarge
	case errors.Is(err, apperrors.ErrInvalidConfig):
		return metrics.OutcomeInvalidConfig
	case errors.Is(err, apperrors.ErrProcessingTimeout):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeFailed
	}
}

func effectiveConfig(cfg *watermark.Config) watermark.Config {
	if cfg == nil {
		return watermark.DefaultConfig()
	}
	return *cfg
}

func requireIDs(ids ...uuid.UUID) error {
	for _, id := range ids {
		if id == uuid.Nil {
			return apperrors.InvalidConfig("owner, source, and logo asset ids are required")
		}
	}
	return nil
}

func toWatermarkedAssets(assets []*asset.Asset) []WatermarkedAsset {
	out := make([]WatermarkedAsset, 0, len(assets))
	for _, a := range assets {
		out = append(out, WatermarkedAsset{
			AssetID:   a.ID,
			Name:      a.Name,
			URL:       a.URL,
			MimeType:  a.MimeType,
			CreatedAt: a.CreatedAt,
		})
	}
	return out
}

func toResponse(result *pipeline.Result) *ApplyWatermarkResponse {
	return &ApplyWatermarkResponse{
		ResultAssetID:    result.Asset.ID,
		ResultAssetURL:   result.Asset.URL,
		ProcessingTimeMs: result.ProcessingTime.Milliseconds(),
		CompletedAt:      result.CompletedAt,
	}
}
