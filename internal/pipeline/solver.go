package pipeline

import (
	"math"

	"watermark-service/internal/domain/watermark"
	apperrors "watermark-service/pkg/errors"
)

// Inset is the fixed pixel offset used by corner and edge positions.
const Inset = 10

// Placement is the solved logo geometry: target dimensions and the
// top-left pixel offset inside the source image.
type Placement struct {
	Width  int
	Height int
	X      int
	Y      int
}

// Solve maps source and logo dimensions plus a validated configuration to
// an integer placement. Pure and deterministic; never touches I/O.
func Solve(srcW, srcH, logoW, logoH int, cfg watermark.Config) (Placement, error) {
	if srcW < 1 || srcH < 1 || logoW < 1 || logoH < 1 {
		return Placement{}, apperrors.InvalidConfig("image dimensions must be positive")
	}

	tw, th := targetSize(srcW, logoW, logoH, cfg.Size)
	if tw > srcW || th > srcH {
		return Placement{}, apperrors.InvalidConfig("logo exceeds source")
	}

	x, y := anchor(srcW, srcH, tw, th, cfg.Position)

	// Clamp to keep the whole logo inside the source raster.
	x = clamp(x, 0, srcW-tw)
	y = clamp(y, 0, srcH-th)

	return Placement{Width: tw, Height: th, X: x, Y: y}, nil
}

func targetSize(srcW, logoW, logoH int, size watermark.Size) (int, int) {
	switch size.Type {
	case watermark.SizePercentage:
		tw := roundPositive(float64(srcW) * size.Percent / 100)
		th := roundPositive(float64(tw) * float64(logoH) / float64(logoW))
		return tw, th
	case watermark.SizeAbsolute:
		return size.Width, size.Height
	case watermark.SizeFitWidth:
		th := roundPositive(float64(size.Width) * float64(logoH) / float64(logoW))
		return size.Width, th
	case watermark.SizeFitHeight:
		tw := roundPositive(float64(size.Height) * float64(logoW) / float64(logoH))
		return tw, size.Height
	}
	return logoW, logoH
}

func anchor(srcW, srcH, tw, th int, pos watermark.Position) (int, int) {
	switch pos.Type {
	case watermark.PositionCorner:
		switch pos.Corner {
		case watermark.CornerTopLeft:
			return Inset, Inset
		case watermark.CornerTopRight:
			return srcW - tw - Inset, Inset
		case watermark.CornerBottomLeft:
			return Inset, srcH - th - Inset
		case watermark.CornerBottomRight:
			return srcW - tw - Inset, srcH - th - Inset
		}
	case watermark.PositionEdge:
		switch pos.Edge {
		case watermark.EdgeTop:
			return (srcW - tw) / 2, Inset
		case watermark.EdgeBottom:
			return (srcW - tw) / 2, srcH - th - Inset
		case watermark.EdgeLeft:
			return Inset, (srcH - th) / 2
		case watermark.EdgeRight:
			return srcW - tw - Inset, (srcH - th) / 2
		}
	case watermark.PositionCustom:
		// Percentage names the top-left pixel of the logo, not its center.
		x := int(math.Floor(float64(srcW) * pos.XPercent / 100))
		y := int(math.Floor(float64(srcH) * pos.YPercent / 100))
		return x, y
	}
	return (srcW - tw) / 2, (srcH - th) / 2
}

func roundPositive(v float64) int {
	r := int(math.Round(v))
	if r < 1 {
		return 1
	}
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
