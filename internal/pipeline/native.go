package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"

	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"watermark-service/internal/domain/watermark"
	apperrors "watermark-service/pkg/errors"
)

// NativeComposer composites in-process: decode, resize, alpha-scale,
// source-over blend, PNG encode. Fully deterministic for identical inputs.
type NativeComposer struct {
	log zerolog.Logger
}

func NewNativeComposer(log zerolog.Logger) *NativeComposer {
	return &NativeComposer{log: log.With().Str("composer", "native").Logger()}
}

func (c *NativeComposer) Compose(ctx context.Context, job ComposeJob) error {
	if err := job.validatePaths(); err != nil {
		return err
	}

	source, err := os.ReadFile(job.SourcePath)
	if err != nil {
		return apperrors.Processing("failed to read source image", err)
	}

	logo, err := os.ReadFile(job.LogoPath)
	if err != nil {
		return apperrors.Processing("failed to read logo image", err)
	}

	out, err := c.composeBytes(ctx, source, logo, job.Config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(job.OutputPath, out, 0o600); err != nil {
		return apperrors.Processing("failed to write composited image", err)
	}

	return nil
}

func (c *NativeComposer) composeBytes(ctx context.Context, source, logo []byte, cfg watermark.Config) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.ProcessingTimeout("composition cancelled")
	}

	srcImg, _, err := image.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, apperrors.Decode("failed to decode source image", err)
	}

	logoImg, _, err := image.Decode(bytes.NewReader(logo))
	if err != nil {
		return nil, apperrors.Decode("failed to decode logo image", err)
	}

	srcBounds := srcImg.Bounds()
	logoBounds := logoImg.Bounds()

	placement, err := Solve(srcBounds.Dx(), srcBounds.Dy(), logoBounds.Dx(), logoBounds.Dy(), cfg)
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Int("src_w", srcBounds.Dx()).Int("src_h", srcBounds.Dy()).
		Int("logo_w", placement.Width).Int("logo_h", placement.Height).
		Int("x", placement.X).Int("y", placement.Y).
		Msg("solved logo placement")

	overlay := resizeNRGBA(toNRGBA(logoImg), placement.Width, placement.Height)
	if cfg.Opacity < 1.0 {
		applyOpacity(overlay, cfg.Opacity)
	}

	canvas := toNRGBA(srcImg)
	compositeOver(canvas, overlay, placement.X, placement.Y)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, apperrors.Encode("failed to encode composited image", err)
	}

	return buf.Bytes(), nil
}

// toNRGBA copies the image into a zero-origin straight-alpha raster.
// The copy keeps the caller's image untouched during compositing.
func toNRGBA(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
	return dst
}

// resizeNRGBA scales with nearest-neighbor sampling, which is deterministic
// across runs and platforms.
func resizeNRGBA(img *image.NRGBA, width, height int) *image.NRGBA {
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// applyOpacity scales the alpha channel in place; color channels unchanged.
func applyOpacity(img *image.NRGBA, opacity float64) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(math.Round(float64(img.Pix[i]) * opacity))
	}
}

// compositeOver performs Porter-Duff source-over blending in straight-alpha
// arithmetic, writing the overlay onto dst at (x, y).
func compositeOver(dst, overlay *image.NRGBA, x, y int) {
	w := overlay.Bounds().Dx()
	h := overlay.Bounds().Dy()

	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			oi := overlay.PixOffset(lx, ly)
			di := dst.PixOffset(x+lx, y+ly)

			la := float64(overlay.Pix[oi+3]) / 255
			if la == 0 {
				continue
			}
			da := float64(dst.Pix[di+3]) / 255

			outA := la + da*(1-la)
			for ch := 0; ch < 3; ch++ {
				lc := float64(overlay.Pix[oi+ch])
				dc := float64(dst.Pix[di+ch])
				var outC float64
				if outA > 0 {
					outC = (lc*la + dc*da*(1-la)) / outA
				}
				dst.Pix[di+ch] = uint8(math.Min(math.Round(outC), 255))
			}
			dst.Pix[di+3] = uint8(math.Min(math.Round(outA*255), 255))
		}
	}
}

// decodeDimensions reads just the image header to get pixel dimensions.
func decodeDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, apperrors.Decode("failed to open image", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, apperrors.Decode(fmt.Sprintf("failed to read image header: %s", path), err)
	}

	return cfg.Width, cfg.Height, nil
}
