package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "watermark-service/pkg/errors"
)

func newTestClient() *Client {
	return &Client{bucketName: "listings-media", storeHost: "s3.amazonaws.com"}
}

func TestParseObjectURL(t *testing.T) {
	c := newTestClient()

	bucket, key, err := c.parseObjectURL("https://s3.amazonaws.com/listings-media/watermarked/villa_watermarked_20240315_093045.png")
	require.NoError(t, err)
	assert.Equal(t, "listings-media", bucket)
	assert.Equal(t, "watermarked/villa_watermarked_20240315_093045.png", key)
}

func TestParseObjectURLHonorsSiblingBucket(t *testing.T) {
	c := newTestClient()

	// A URL naming another bucket on the configured host is still served;
	// only the host is pinned.
	bucket, key, err := c.parseObjectURL("https://s3.amazonaws.com/archive-media/photo.png")
	require.NoError(t, err)
	assert.Equal(t, "archive-media", bucket)
	assert.Equal(t, "photo.png", key)
}

func TestParseObjectURLRejectsForeignHost(t *testing.T) {
	c := newTestClient()

	tests := []struct {
		name string
		url  string
	}{
		{"foreign host", "https://evil.example.com/listings-media/photo.png"},
		{"http scheme", "http://s3.amazonaws.com/listings-media/photo.png"},
		{"missing object path", "https://s3.amazonaws.com/listings-media"},
		{"empty key", "https://s3.amazonaws.com/listings-media/"},
		{"not a url", "://not-a-url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.parseObjectURL(tt.url)
			assert.ErrorIs(t, err, apperrors.ErrStoreTransport)
		})
	}
}

func TestObjectURL(t *testing.T) {
	c := newTestClient()
	assert.Equal(t,
		"https://s3.amazonaws.com/listings-media/watermarked/villa.png",
		c.objectURL("watermarked/villa.png"))
}

func TestObjectURLRoundTrip(t *testing.T) {
	c := newTestClient()

	bucket, key, err := c.parseObjectURL(c.objectURL("watermarked/deck_watermarked_20240801_120000.png"))
	require.NoError(t, err)
	assert.Equal(t, "listings-media", bucket)
	assert.Equal(t, "watermarked/deck_watermarked_20240801_120000.png", key)
}
