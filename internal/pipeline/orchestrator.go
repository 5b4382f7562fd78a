package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"watermark-service/internal/domain/asset"
	"watermark-service/internal/domain/watermark"
	apperrors "watermark-service/pkg/errors"
)

// ObjectStore moves image bytes between the object store and local files.
type ObjectStore interface {
	Download(ctx context.Context, url, destPath string, maxBytes int64) error
	Upload(ctx context.Context, objectName, path, contentType string) (string, error)
}

// AssetCatalog resolves and records assets for the pipeline.
type AssetCatalog interface {
	Get(ctx context.Context, id, ownerID uuid.UUID) (*asset.Asset, error)
	InsertDerived(ctx context.Context, in asset.CreateDerivedInput) (*asset.Asset, error)
	InheritShares(ctx context.Context, parentID, childID uuid.UUID) error
}

// Step carries one logo and its placement configuration.
type Step struct {
	LogoAssetID uuid.UUID
	Config      watermark.Config
}

// Request describes one watermarking run: a source asset and one or more
// logos applied in order. A single-logo request is a one-step batch.
type Request struct {
	OwnerID       uuid.UUID
	SourceAssetID uuid.UUID
	Steps         []Step
}

// Result is the recorded outcome of a completed run.
type Result struct {
	Asset          *asset.Asset
	ProcessingTime time.Duration
	CompletedAt    time.Time
}

// Orchestrator drives the full watermarking protocol: resolve assets,
// stage bytes in a private temp directory, compose, upload, and record the
// derived asset. It owns the temp directory lifecycle.
type Orchestrator struct {
	store    ObjectStore
	catalog  AssetCatalog
	composer Composer
	timeout  time.Duration
	maxInput int64
	log      zerolog.Logger
}

func NewOrchestrator(store ObjectStore, catalog AssetCatalog, composer Composer, timeout time.Duration, maxInput int64, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		catalog:  catalog,
		composer: composer,
		timeout:  timeout,
		maxInput: maxInput,
		log:      log.With().Str("component", "watermark_pipeline").Logger(),
	}
}

// Apply runs the watermarking protocol for one request. The temp directory
// is removed on every path, success or failure.
func (o *Orchestrator) Apply(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if len(req.Steps) == 0 {
		return nil, apperrors.InvalidConfig("at least one logo is required")
	}
	for _, step := range req.Steps {
		if err := step.Config.Validate(); err != nil {
			return nil, err
		}
	}

	source, err := o.catalog.Get(ctx, req.SourceAssetID, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if !source.IsImage() {
		return nil, apperrors.InvalidConfig(fmt.Sprintf("source asset is not an image: %s", source.MediaType()))
	}

	logos := make([]*asset.Asset, 0, len(req.Steps))
	for _, step := range req.Steps {
		logo, err := o.catalog.Get(ctx, step.LogoAssetID, req.OwnerID)
		if err != nil {
			return nil, err
		}
		if !logo.IsImage() {
			return nil, apperrors.InvalidConfig(fmt.Sprintf("logo asset is not an image: %s", logo.MediaType()))
		}
		logos = append(logos, logo)
	}

	runID := uuid.New()
	workDir, err := os.MkdirTemp("", "watermark_"+runID.String())
	if err != nil {
		return nil, apperrors.Processing("failed to create work directory", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			o.log.Warn().Err(err).Str("work_dir", workDir).Msg("failed to remove work directory")
		}
	}()

	sourcePath := filepath.Join(workDir, "source")
	if err := o.store.Download(ctx, source.URL, sourcePath, o.maxInput); err != nil {
		return nil, err
	}

	logoPaths := make([]string, 0, len(logos))
	for i, logo := range logos {
		p := filepath.Join(workDir, fmt.Sprintf("logo_%d", i))
		if err := o.store.Download(ctx, logo.URL, p, o.maxInput); err != nil {
			return nil, err
		}
		logoPaths = append(logoPaths, p)
	}

	outputPath, err := o.compose(ctx, workDir, sourcePath, logoPaths, req.Steps)
	if err != nil {
		return nil, err
	}

	name := outputFilename(source.Stem(), runID, time.Now().UTC())
	objectName := "watermarked/" + name

	url, err := o.store.Upload(ctx, objectName, outputPath, outputContentType(source.MediaType()))
	if err != nil {
		return nil, err
	}

	derived, err := o.catalog.InsertDerived(ctx, asset.CreateDerivedInput{
		OwnerID:    req.OwnerID,
		Name:       name,
		ObjectName: objectName,
		URL:        url,
		Parent:     source,
	})
	if err != nil {
		return nil, err
	}

	// Share inheritance is best effort: a failure leaves the derived asset
	// intact and visible to its owner.
	if err := o.catalog.InheritShares(ctx, source.ID, derived.ID); err != nil {
		o.log.Warn().Err(err).
			Str("source_asset_id", source.ID.String()).
			Str("derived_asset_id", derived.ID.String()).
			Msg("failed to inherit shares onto derived asset")
	}

	elapsed := time.Since(start)
	o.log.Info().
		Str("source_asset_id", source.ID.String()).
		Str("derived_asset_id", derived.ID.String()).
		Int("logo_count", len(req.Steps)).
		Dur("processing_time", elapsed).
		Msg("watermark applied")

	return &Result{
		Asset:          derived,
		ProcessingTime: elapsed,
		CompletedAt:    time.Now().UTC(),
	}, nil
}

// compose applies each step in order, feeding the previous output in as
// the next source. The whole chain shares one deadline.
func (o *Orchestrator) compose(ctx context.Context, workDir, sourcePath string, logoPaths []string, steps []Step) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	current := sourcePath
	var outputPath string
	for i, step := range steps {
		outputPath = filepath.Join(workDir, fmt.Sprintf("output_%d.png", i))
		job := ComposeJob{
			SourcePath: current,
			LogoPath:   logoPaths[i],
			OutputPath: outputPath,
			WorkDir:    workDir,
			Config:     step.Config,
		}
		if err := o.composer.Compose(ctx, job); err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return "", apperrors.ProcessingTimeout("watermark composition exceeded time limit")
			}
			return "", err
		}
		current = outputPath
	}

	return outputPath, nil
}

// outputFilename derives the stored name from the source stem, a UTC
// timestamp, and the run id. The run id keeps names distinct when two
// runs land in the same second; output is always PNG encoded.
func outputFilename(stem string, runID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("%s_watermarked_%s_%s.png", stem, now.Format("20060102_150405"), runID)
}

// outputContentType keeps the source's declared type for the common image
// formats and falls back to PNG for everything else.
func outputContentType(sourceMime string) string {
	switch sourceMime {
	case "image/png", "image/jpeg":
		return sourceMime
	}
	return "image/png"
}
