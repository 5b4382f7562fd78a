package asset

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStem(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"villa.jpg", "villa"},
		{"beach.house.png", "beach.house"},
		{"noextension", "noextension"},
		{".env", ".env"},
	}

	for _, tt := range tests {
		a := &Asset{Name: tt.name}
		assert.Equal(t, tt.want, a.Stem(), "name %q", tt.name)
	}
}

func TestIsImage(t *testing.T) {
	assert.True(t, (&Asset{MimeType: "image/jpeg"}).IsImage())
	assert.True(t, (&Asset{MimeType: "image/webp"}).IsImage())
	assert.False(t, (&Asset{MimeType: "application/pdf", Name: "contract.pdf"}).IsImage())

	// Missing mime type falls back to the extension.
	assert.True(t, (&Asset{Name: "photo.jpeg"}).IsImage())
}

func TestContentTypeForName(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeForName("villa.JPG"))
	assert.Equal(t, "image/jpeg", ContentTypeForName("villa.jpeg"))
	assert.Equal(t, "image/webp", ContentTypeForName("villa.webp"))
	assert.Equal(t, "image/gif", ContentTypeForName("villa.gif"))
	assert.Equal(t, "image/svg+xml", ContentTypeForName("logo.svg"))
	assert.Equal(t, "image/png", ContentTypeForName("villa.png"))
	assert.Equal(t, "image/png", ContentTypeForName("villa.bmp"))
	assert.Equal(t, "image/png", ContentTypeForName("villa"))
}

func TestCreateDerivedInputValidate(t *testing.T) {
	parent := &Asset{ID: uuid.New()}

	valid := CreateDerivedInput{Name: "villa_watermarked.png", Parent: parent}
	assert.True(t, valid.Validate())

	assert.False(t, (&CreateDerivedInput{Name: "", Parent: parent}).Validate())
	assert.False(t, (&CreateDerivedInput{Name: "x.png", Parent: nil}).Validate())
	assert.False(t, (&CreateDerivedInput{Name: strings.Repeat("a", 256), Parent: parent}).Validate())
}
