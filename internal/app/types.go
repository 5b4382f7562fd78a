package app

import (
	"time"

	"github.com/google/uuid"

	"watermark-service/internal/domain/watermark"
)

// ApplyWatermarkRequest applies one logo to one source asset. A nil config
// selects the default placement.
type ApplyWatermarkRequest struct {
	OwnerID       uuid.UUID         `json:"owner_id"`
	SourceAssetID uuid.UUID         `json:"source_asset_id"`
	LogoAssetID   uuid.UUID         `json:"logo_asset_id"`
	Config        *watermark.Config `json:"config,omitempty"`
}

// BatchStep is one logo application within a batch request.
type BatchStep struct {
	LogoAssetID uuid.UUID         `json:"logo_asset_id"`
	Config      *watermark.Config `json:"config,omitempty"`
}

// ApplyWatermarkBatchRequest applies several logos to one source asset in
// order, producing a single derived asset.
type ApplyWatermarkBatchRequest struct {
	OwnerID       uuid.UUID   `json:"owner_id"`
	SourceAssetID uuid.UUID   `json:"source_asset_id"`
	Steps         []BatchStep `json:"steps"`
}

// WatermarkedAsset summarizes one derived asset in listing responses.
type WatermarkedAsset struct {
	AssetID   uuid.UUID `json:"asset_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// ApplyWatermarkResponse reports the recorded derived asset and timing.
type ApplyWatermarkResponse struct {
	ResultAssetID    uuid.UUID `json:"result_asset_id"`
	ResultAssetURL   string    `json:"result_asset_url"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	CompletedAt      time.Time `json:"completed_at"`
}
