package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"watermark-service/internal/domain/asset"
	apperrors "watermark-service/pkg/errors"
)

// AssetRepository is the Postgres-backed asset catalog.
type AssetRepository struct {
	db *DB
}

func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// Get resolves an asset by id, scoped to its owner. A row owned by anyone
// else reads as not found.
func (r *AssetRepository) Get(ctx context.Context, id, ownerID uuid.UUID) (*asset.Asset, error) {
	query := `
		SELECT id, owner_id, name, mime_type, object_name, url, collection_id, metadata, created_at, updated_at
		FROM assets WHERE id = $1 AND owner_id = $2
	`

	a := &asset.Asset{}
	err := r.db.Pool.QueryRow(ctx, query, id, ownerID).Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.MimeType, &a.ObjectName, &a.URL, &a.CollectionID, &a.Metadata, &a.CreatedAt, &a.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.AssetNotFound(fmt.Sprintf("asset not found: %s", id))
		}
		return nil, apperrors.InternalServer("catalog lookup failed", errFailedGetAsset(err))
	}

	return a, nil
}

// InsertDerived records a watermarked output as a child of its source,
// copying the source's mime type, collection, and metadata.
func (r *AssetRepository) InsertDerived(ctx context.Context, in asset.CreateDerivedInput) (*asset.Asset, error) {
	if !in.Validate() {
		return nil, apperrors.CatalogInsert("invalid derived asset input", nil)
	}

	query := `
		INSERT INTO assets (owner_id, name, mime_type, object_name, url, collection_id, metadata, parent_asset_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, owner_id, name, mime_type, object_name, url, collection_id, metadata, created_at, updated_at
	`

	a := &asset.Asset{}
	err := r.db.Pool.QueryRow(ctx, query,
		in.OwnerID, in.Name, in.Parent.MimeType, in.ObjectName, in.URL,
		in.Parent.CollectionID, in.Parent.Metadata, in.Parent.ID,
	).Scan(
		&a.ID, &a.OwnerID, &a.Name, &a.MimeType, &a.ObjectName, &a.URL, &a.CollectionID, &a.Metadata, &a.CreatedAt, &a.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.CatalogInsert("derived asset already recorded", err)
		}
		return nil, apperrors.CatalogInsert("catalog insert failed", errFailedInsertAsset(err))
	}

	return a, nil
}

// InheritShares copies every share grant of the parent onto the child.
// Existing grants on the child are left untouched.
func (r *AssetRepository) InheritShares(ctx context.Context, parentID, childID uuid.UUID) error {
	query := `
		INSERT INTO asset_shares (asset_id, grantee_id, permission)
		SELECT $2, grantee_id, permission
		FROM asset_shares WHERE asset_id = $1
		ON CONFLICT (asset_id, grantee_id) DO NOTHING
	`

	if _, err := r.db.Pool.Exec(ctx, query, parentID, childID); err != nil {
		return errFailedCopyShares(err)
	}

	return nil
}

// ListDerived returns the watermarked children of an asset, newest first.
func (r *AssetRepository) ListDerived(ctx context.Context, parentID, ownerID uuid.UUID) ([]*asset.Asset, error) {
	query := `
		SELECT id, owner_id, name, mime_type, object_name, url, collection_id, metadata, created_at, updated_at
		FROM assets WHERE parent_asset_id = $1 AND owner_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, parentID, ownerID)
	if err != nil {
		return nil, apperrors.InternalServer("catalog lookup failed", errFailedListDerived(err))
	}
	defer rows.Close()

	var assets []*asset.Asset
	for rows.Next() {
		a := &asset.Asset{}
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &a.MimeType, &a.ObjectName, &a.URL, &a.CollectionID, &a.Metadata, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, apperrors.InternalServer("catalog lookup failed", errFailedScanAsset(err))
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.InternalServer("catalog lookup failed", errIterateDerived(err))
	}

	return assets, nil
}
