package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"watermark-service/internal/domain/watermark"
	apperrors "watermark-service/pkg/errors"
)

// DefaultMagickBinary is used when no binary path is configured.
const DefaultMagickBinary = "magick"

// MagickComposer shells out to ImageMagick in three passes: resize the
// logo, scale its alpha channel, composite onto the source. Arguments are
// always passed as a vector, never through a shell.
type MagickComposer struct {
	binary string
	log    zerolog.Logger
}

func NewMagickComposer(binary string, log zerolog.Logger) *MagickComposer {
	if binary == "" {
		binary = DefaultMagickBinary
	}
	return &MagickComposer{
		binary: binary,
		log:    log.With().Str("composer", "magick").Logger(),
	}
}

func (c *MagickComposer) Compose(ctx context.Context, job ComposeJob) error {
	if err := job.validatePaths(); err != nil {
		return err
	}

	srcW, srcH, err := decodeDimensions(job.SourcePath)
	if err != nil {
		return err
	}
	logoW, logoH, err := decodeDimensions(job.LogoPath)
	if err != nil {
		return err
	}

	placement, err := Solve(srcW, srcH, logoW, logoH, job.Config)
	if err != nil {
		return err
	}

	resized := filepath.Join(job.WorkDir, "logo_resized.png")
	if err := c.run(ctx, buildResizeArgs(job.LogoPath, resized, placement.Width, placement.Height)); err != nil {
		return err
	}

	overlay := resized
	if job.Config.Opacity < 1.0 {
		dimmed := filepath.Join(job.WorkDir, "logo_dimmed.png")
		if err := c.run(ctx, buildOpacityArgs(resized, dimmed, job.Config.Opacity)); err != nil {
			return err
		}
		overlay = dimmed
	}

	return c.run(ctx, buildCompositeArgs(overlay, job.SourcePath, job.OutputPath, job.Config.Position))
}

func (c *MagickComposer) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.log.Debug().Str("binary", c.binary).Strs("args", args).Msg("running imagemagick pass")

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return apperrors.ProcessingTimeout("imagemagick pass exceeded time limit")
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return apperrors.Processing(fmt.Sprintf("imagemagick %s failed: %s", args[0], msg), err)
	}

	return nil
}

// buildResizeArgs forces the exact target geometry so subprocess output
// matches the in-process backend pixel for pixel in dimensions.
func buildResizeArgs(in, out string, width, height int) []string {
	return []string{
		"convert", in,
		"-resize", fmt.Sprintf("%dx%d!", width, height),
		out,
	}
}

func buildOpacityArgs(in, out string, opacity float64) []string {
	return []string{
		"convert", in,
		"-alpha", "set",
		"-channel", "A",
		"-evaluate", "multiply", strconv.FormatFloat(opacity, 'f', -1, 64),
		"+channel",
		out,
	}
}

func buildCompositeArgs(overlay, source, out string, pos watermark.Position) []string {
	gravity, geometry := compositePlacement(pos)
	return []string{
		"composite",
		"-gravity", gravity,
		"-geometry", geometry,
		"-compose", "Over",
		overlay, source, out,
	}
}

// compositePlacement maps a position to an ImageMagick gravity and offset.
// Corner and edge offsets carry the fixed inset along the anchored axes.
func compositePlacement(pos watermark.Position) (string, string) {
	inset := strconv.Itoa(Inset)

	switch pos.Type {
	case watermark.PositionCorner:
		geometry := "+" + inset + "+" + inset
		switch pos.Corner {
		case watermark.CornerTopLeft:
			return "NorthWest", geometry
		case watermark.CornerTopRight:
			return "NorthEast", geometry
		case watermark.CornerBottomLeft:
			return "SouthWest", geometry
		case watermark.CornerBottomRight:
			return "SouthEast", geometry
		}
	case watermark.PositionEdge:
		switch pos.Edge {
		case watermark.EdgeTop:
			return "North", "+0+" + inset
		case watermark.EdgeBottom:
			return "South", "+0+" + inset
		case watermark.EdgeLeft:
			return "West", "+" + inset + "+0"
		case watermark.EdgeRight:
			return "East", "+" + inset + "+0"
		}
	case watermark.PositionCustom:
		return "NorthWest", fmt.Sprintf("+%s%%+%s%%",
			strconv.FormatFloat(pos.XPercent, 'f', -1, 64),
			strconv.FormatFloat(pos.YPercent, 'f', -1, 64))
	}

	return "Center", "+0+0"
}
