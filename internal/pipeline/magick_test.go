package pipeline

import (
	"context"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watermark-service/internal/domain/watermark"
	apperrors "watermark-service/pkg/errors"
)

func TestBuildResizeArgs(t *testing.T) {
	args := buildResizeArgs("/tmp/w/logo.png", "/tmp/w/logo_resized.png", 100, 50)
	assert.Equal(t, []string{
		"convert", "/tmp/w/logo.png",
		"-resize", "100x50!",
		"/tmp/w/logo_resized.png",
	}, args)
}

func TestBuildOpacityArgs(t *testing.T) {
	args := buildOpacityArgs("/tmp/w/in.png", "/tmp/w/out.png", 0.8)
	assert.Equal(t, []string{
		"convert", "/tmp/w/in.png",
		"-alpha", "set",
		"-channel", "A",
		"-evaluate", "multiply", "0.8",
		"+channel",
		"/tmp/w/out.png",
	}, args)
}

func TestBuildCompositeArgsGravity(t *testing.T) {
	tests := []struct {
		name         string
		pos          watermark.Position
		wantGravity  string
		wantGeometry string
	}{
		{"corner top_left", watermark.CornerPosition(watermark.CornerTopLeft), "NorthWest", "+10+10"},
		{"corner bottom_right", watermark.CornerPosition(watermark.CornerBottomRight), "SouthEast", "+10+10"},
		{"edge top", watermark.EdgePosition(watermark.EdgeTop), "North", "+0+10"},
		{"edge bottom", watermark.EdgePosition(watermark.EdgeBottom), "South", "+0+10"},
		{"edge left", watermark.EdgePosition(watermark.EdgeLeft), "West", "+10+0"},
		{"edge right", watermark.EdgePosition(watermark.EdgeRight), "East", "+10+0"},
		{"center", watermark.CenterPosition(), "Center", "+0+0"},
		{"custom", watermark.CustomPosition(25, 75), "NorthWest", "+25%+75%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := buildCompositeArgs("overlay.png", "src.png", "out.png", tt.pos)
			assert.Equal(t, []string{
				"composite",
				"-gravity", tt.wantGravity,
				"-geometry", tt.wantGeometry,
				"-compose", "Over",
				"overlay.png", "src.png", "out.png",
			}, args)
		})
	}
}

func TestMagickComposeRejectsUnsafePaths(t *testing.T) {
	c := NewMagickComposer("", zerolog.Nop())

	tests := []struct {
		name string
		job  ComposeJob
	}{
		{
			name: "traversal in source",
			job: ComposeJob{
				SourcePath: filepath.Join(os.TempDir(), "w", "..", "..", "etc", "passwd"),
				LogoPath:   filepath.Join(os.TempDir(), "w", "logo.png"),
				OutputPath: filepath.Join(os.TempDir(), "w", "out.png"),
				WorkDir:    filepath.Join(os.TempDir(), "w"),
			},
		},
		{
			name: "shell metacharacter in logo",
			job: ComposeJob{
				SourcePath: filepath.Join(os.TempDir(), "w", "src.png"),
				LogoPath:   filepath.Join(os.TempDir(), "w", "logo.png; rm -rf tmp"),
				OutputPath: filepath.Join(os.TempDir(), "w", "out.png"),
				WorkDir:    filepath.Join(os.TempDir(), "w"),
			},
		},
		{
			name: "absolute path outside temp",
			job: ComposeJob{
				SourcePath: "/var/lib/source.png",
				LogoPath:   filepath.Join(os.TempDir(), "w", "logo.png"),
				OutputPath: filepath.Join(os.TempDir(), "w", "out.png"),
				WorkDir:    filepath.Join(os.TempDir(), "w"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.job.Config = watermark.DefaultConfig()
			err := c.Compose(context.Background(), tt.job)
			assert.ErrorIs(t, err, apperrors.ErrUnsafePath)
		})
	}
}

func TestMagickDefaultBinary(t *testing.T) {
	c := NewMagickComposer("", zerolog.Nop())
	assert.Equal(t, DefaultMagickBinary, c.binary)

	c = NewMagickComposer("/usr/local/bin/magick", zerolog.Nop())
	assert.Equal(t, "/usr/local/bin/magick", c.binary)
}

// TestBackendAgreement checks that both backends place the logo in the same
// region of the output. It needs a working ImageMagick install and skips
// otherwise.
func TestBackendAgreement(t *testing.T) {
	if _, err := exec.LookPath(DefaultMagickBinary); err != nil {
		t.Skipf("%s binary not available", DefaultMagickBinary)
	}

	dir, err := os.MkdirTemp("", "watermark_test_")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, "source.png")
	logoPath := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(srcPath, solidPNG(t, 1000, 600, white), 0o600))
	require.NoError(t, os.WriteFile(logoPath, solidPNG(t, 200, 100, red), 0o600))

	cfg := watermark.Config{
		Position: watermark.CornerPosition(watermark.CornerBottomRight),
		Size:     watermark.PercentageSize(10),
		Opacity:  1.0,
	}

	backends := map[string]Composer{
		"native": NewNativeComposer(zerolog.Nop()),
		"magick": NewMagickComposer("", zerolog.Nop()),
	}

	for name, backend := range backends {
		outPath := filepath.Join(dir, name+"_out.png")
		job := ComposeJob{
			SourcePath: srcPath,
			LogoPath:   logoPath,
			OutputPath: outPath,
			WorkDir:    dir,
			Config:     cfg,
		}
		require.NoError(t, backend.Compose(context.Background(), job), "backend %s", name)

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		img := decodePNG(t, data)

		require.Equal(t, image.Rect(0, 0, 1000, 600), img.Bounds(), "backend %s", name)
		assert.Equal(t, red, img.NRGBAAt(940, 565), "backend %s: inside logo", name)
		assert.Equal(t, white, img.NRGBAAt(500, 300), "backend %s: outside logo", name)
	}
}
