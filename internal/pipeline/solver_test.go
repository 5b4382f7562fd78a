package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watermark-service/internal/domain/watermark"
	apperrors "watermark-service/pkg/errors"
)

func TestSolveCornerPositions(t *testing.T) {
	cfg := watermark.Config{Size: watermark.AbsoluteSize(100, 60), Opacity: 1}

	tests := []struct {
		corner watermark.Corner
		wantX  int
		wantY  int
	}{
		{watermark.CornerTopLeft, 10, 10},
		{watermark.CornerTopRight, 890, 10},
		{watermark.CornerBottomLeft, 10, 530},
		{watermark.CornerBottomRight, 890, 530},
	}

	for _, tt := range tests {
		t.Run(string(tt.corner), func(t *testing.T) {
			cfg.Position = watermark.CornerPosition(tt.corner)
			p, err := Solve(1000, 600, 200, 120, cfg)
			require.NoError(t, err)
			assert.Equal(t, Placement{Width: 100, Height: 60, X: tt.wantX, Y: tt.wantY}, p)
		})
	}
}

func TestSolveEdgePositions(t *testing.T) {
	cfg := watermark.Config{Size: watermark.AbsoluteSize(100, 60), Opacity: 1}

	tests := []struct {
		edge  watermark.Edge
		wantX int
		wantY int
	}{
		{watermark.EdgeTop, 450, 10},
		{watermark.EdgeBottom, 450, 530},
		{watermark.EdgeLeft, 10, 270},
		{watermark.EdgeRight, 890, 270},
	}

	for _, tt := range tests {
		t.Run(string(tt.edge), func(t *testing.T) {
			cfg.Position = watermark.EdgePosition(tt.edge)
			p, err := Solve(1000, 600, 200, 120, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantX, p.X)
			assert.Equal(t, tt.wantY, p.Y)
		})
	}
}

func TestSolvePercentageSizeBottomRight(t *testing.T) {
	cfg := watermark.Config{
		Position: watermark.CornerPosition(watermark.CornerBottomRight),
		Size:     watermark.PercentageSize(10),
		Opacity:  1,
	}

	p, err := Solve(1000, 600, 200, 100, cfg)
	require.NoError(t, err)
	assert.Equal(t, Placement{Width: 100, Height: 50, X: 890, Y: 540}, p)
}

func TestSolveCenterAbsolute(t *testing.T) {
	cfg := watermark.Config{
		Position: watermark.CenterPosition(),
		Size:     watermark.AbsoluteSize(200, 100),
		Opacity:  0.5,
	}

	p, err := Solve(1000, 600, 200, 100, cfg)
	require.NoError(t, err)
	assert.Equal(t, Placement{Width: 200, Height: 100, X: 400, Y: 250}, p)
}

func TestSolveCustomPositionClamped(t *testing.T) {
	cfg := watermark.Config{
		Position: watermark.CustomPosition(100, 100),
		Size:     watermark.AbsoluteSize(200, 100),
		Opacity:  1,
	}

	p, err := Solve(1000, 600, 200, 100, cfg)
	require.NoError(t, err)
	assert.Equal(t, 800, p.X)
	assert.Equal(t, 500, p.Y)
}

func TestSolveCustomPositionTopLeftSemantics(t *testing.T) {
	cfg := watermark.Config{
		Position: watermark.CustomPosition(50, 50),
		Size:     watermark.AbsoluteSize(100, 60),
		Opacity:  1,
	}

	// 50% names the top-left pixel of the logo, not its center.
	p, err := Solve(1000, 600, 100, 60, cfg)
	require.NoError(t, err)
	assert.Equal(t, 500, p.X)
	assert.Equal(t, 300, p.Y)
}

func TestSolveLogoExceedsSource(t *testing.T) {
	cfg := watermark.Config{
		Position: watermark.CornerPosition(watermark.CornerTopLeft),
		Size:     watermark.FitWidthSize(2000),
		Opacity:  1,
	}

	_, err := Solve(1000, 600, 200, 100, cfg)
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "logo exceeds source")
}

func TestSolveFitHeightPreservesAspect(t *testing.T) {
	cfg := watermark.Config{
		Position: watermark.CenterPosition(),
		Size:     watermark.FitHeightSize(50),
		Opacity:  1,
	}

	p, err := Solve(1000, 600, 200, 100, cfg)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Width)
	assert.Equal(t, 50, p.Height)
}

func TestSolveBoundsInvariant(t *testing.T) {
	positions := []watermark.Position{
		watermark.CornerPosition(watermark.CornerTopLeft),
		watermark.CornerPosition(watermark.CornerTopRight),
		watermark.CornerPosition(watermark.CornerBottomLeft),
		watermark.CornerPosition(watermark.CornerBottomRight),
		watermark.EdgePosition(watermark.EdgeTop),
		watermark.EdgePosition(watermark.EdgeBottom),
		watermark.EdgePosition(watermark.EdgeLeft),
		watermark.EdgePosition(watermark.EdgeRight),
		watermark.CenterPosition(),
		watermark.CustomPosition(0, 0),
		watermark.CustomPosition(100, 100),
		watermark.CustomPosition(33, 66),
	}
	sizes := []watermark.Size{
		watermark.PercentageSize(1),
		watermark.PercentageSize(10),
		watermark.PercentageSize(100),
		watermark.AbsoluteSize(1, 1),
		watermark.AbsoluteSize(17, 123),
		watermark.FitWidthSize(64),
		watermark.FitHeightSize(31),
	}
	dims := []struct{ srcW, srcH, logoW, logoH int }{
		{1000, 600, 200, 100},
		{5, 5, 3, 3},
		{1920, 1080, 512, 512},
		{100, 2000, 30, 7},
	}

	for _, d := range dims {
		for _, pos := range positions {
			for _, size := range sizes {
				cfg := watermark.Config{Position: pos, Size: size, Opacity: 1}
				p, err := Solve(d.srcW, d.srcH, d.logoW, d.logoH, cfg)
				if err != nil {
					continue // logo exceeds source for this combination
				}

				assert.GreaterOrEqual(t, p.X, 0)
				assert.GreaterOrEqual(t, p.Y, 0)
				assert.LessOrEqual(t, p.X+p.Width, d.srcW)
				assert.LessOrEqual(t, p.Y+p.Height, d.srcH)
			}
		}
	}
}

func TestSolveSmallSourceSaturates(t *testing.T) {
	cfg := watermark.Config{
		Position: watermark.CornerPosition(watermark.CornerBottomRight),
		Size:     watermark.AbsoluteSize(10, 10),
		Opacity:  1,
	}

	// Source barely fits the logo; the 10 px inset saturates at zero.
	p, err := Solve(12, 12, 10, 10, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, p.X)
	assert.Equal(t, 0, p.Y)
}
