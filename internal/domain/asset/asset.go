package asset

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxNameLength = 255

// Asset is a stored image or document owned by a principal, addressable
// by id and by canonical store URL.
type Asset struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	MimeType     string
	ObjectName   string
	URL          string
	CollectionID *uuid.UUID
	Metadata     json.RawMessage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MediaType returns the declared mime type, falling back to a guess from
// the file extension for rows that predate mime recording.
func (a *Asset) MediaType() string {
	if a.MimeType != "" {
		return a.MimeType
	}
	return ContentTypeForName(a.Name)
}

// IsImage reports whether the asset carries an image/* media type.
func (a *Asset) IsImage() bool {
	return strings.HasPrefix(a.MediaType(), "image/")
}

// ContentTypeForName maps a file extension to a media type, defaulting
// to PNG for anything unrecognized.
func ContentTypeForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// Stem returns the asset name with its final extension removed.
func (a *Asset) Stem() string {
	if idx := strings.LastIndex(a.Name, "."); idx > 0 {
		return a.Name[:idx]
	}
	return a.Name
}

type CreateDerivedInput struct {
	OwnerID    uuid.UUID
	Name       string
	ObjectName string
	URL        string
	Parent     *Asset
}

// Validate checks the derived-insert input against catalog constraints.
func (in *CreateDerivedInput) Validate() bool {
	return in.Name != "" && len(in.Name) <= maxNameLength && in.Parent != nil
}
