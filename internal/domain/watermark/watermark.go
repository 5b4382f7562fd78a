package watermark

import (
	"encoding/json"
	"fmt"

	apperrors "watermark-service/pkg/errors"
)

// Limits shared by the validator and both composition backends.
const (
	MaxPercent   = 200.0
	MaxDimension = 10_000
)

type PositionType string

const (
	PositionCorner PositionType = "corner"
	PositionEdge   PositionType = "edge"
	PositionCenter PositionType = "center"
	PositionCustom PositionType = "custom"
)

type Corner string

const (
	CornerTopLeft     Corner = "top_left"
	CornerTopRight    Corner = "top_right"
	CornerBottomLeft  Corner = "bottom_left"
	CornerBottomRight Corner = "bottom_right"
)

type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

// Position places the logo on the source image. Corner and Edge keep a
// fixed 10 px inset; Custom names the top-left pixel of the placed logo,
// not its center.
type Position struct {
	Type     PositionType
	Corner   Corner
	Edge     Edge
	XPercent float64
	YPercent float64
}

func CornerPosition(c Corner) Position {
	return Position{Type: PositionCorner, Corner: c}
}

func EdgePosition(e Edge) Position {
	return Position{Type: PositionEdge, Edge: e}
}

func CenterPosition() Position {
	return Position{Type: PositionCenter}
}

func CustomPosition(xPercent, yPercent float64) Position {
	return Position{Type: PositionCustom, XPercent: xPercent, YPercent: yPercent}
}

type SizeType string

const (
	SizePercentage SizeType = "percentage"
	SizeAbsolute   SizeType = "absolute"
	SizeFitWidth   SizeType = "fit_width"
	SizeFitHeight  SizeType = "fit_height"
)

// Size determines the target logo dimensions. Percentage scales against
// the source width; FitWidth and FitHeight preserve the logo aspect ratio.
type Size struct {
	Type    SizeType
	Percent float64
	Width   int
	Height  int
}

func PercentageSize(percent float64) Size {
	return Size{Type: SizePercentage, Percent: percent}
}

func AbsoluteSize(width, height int) Size {
	return Size{Type: SizeAbsolute, Width: width, Height: height}
}

func FitWidthSize(width int) Size {
	return Size{Type: SizeFitWidth, Width: width}
}

func FitHeightSize(height int) Size {
	return Size{Type: SizeFitHeight, Height: height}
}

// Config is the validated watermark configuration. Treated as immutable
// once Validate has passed.
type Config struct {
	Position Position `json:"position"`
	Size     Size     `json:"size"`
	Opacity  float64  `json:"opacity"`
}

// DefaultConfig returns the configuration applied when a request omits one.
func DefaultConfig() Config {
	return Config{
		Position: CornerPosition(CornerBottomRight),
		Size:     PercentageSize(10),
		Opacity:  0.8,
	}
}

// Validate enforces all range constraints before any resource is acquired.
func (c Config) Validate() error {
	if c.Opacity < 0.0 || c.Opacity > 1.0 {
		return apperrors.InvalidConfig(fmt.Sprintf("opacity must be between 0.0 and 1.0, got: %v", c.Opacity))
	}

	if err := c.Position.validate(); err != nil {
		return err
	}

	return c.Size.validate()
}

func (p Position) validate() error {
	switch p.Type {
	case PositionCorner:
		switch p.Corner {
		case CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight:
			return nil
		}
		return apperrors.InvalidConfig(fmt.Sprintf("unknown corner: %q", p.Corner))
	case PositionEdge:
		switch p.Edge {
		case EdgeTop, EdgeBottom, EdgeLeft, EdgeRight:
			return nil
		}
		return apperrors.InvalidConfig(fmt.Sprintf("unknown edge: %q", p.Edge))
	case PositionCenter:
		return nil
	case PositionCustom:
		if p.XPercent < 0 || p.XPercent > 100 || p.YPercent < 0 || p.YPercent > 100 {
			return apperrors.InvalidConfig(fmt.Sprintf(
				"custom position percentages must be between 0.0 and 100.0, got: %v%%, %v%%", p.XPercent, p.YPercent))
		}
		return nil
	}
	return apperrors.InvalidConfig(fmt.Sprintf("unknown position type: %q", p.Type))
}

func (s Size) validate() error {
	switch s.Type {
	case SizePercentage:
		if s.Percent <= 0 || s.Percent > MaxPercent {
			return apperrors.InvalidConfig(fmt.Sprintf(
				"percentage must be greater than 0 and at most %v, got: %v", MaxPercent, s.Percent))
		}
		return nil
	case SizeAbsolute:
		if s.Width < 1 || s.Height < 1 || s.Width > MaxDimension || s.Height > MaxDimension {
			return apperrors.InvalidConfig(fmt.Sprintf(
				"absolute dimensions must be between 1 and %d pixels, got: %dx%d", MaxDimension, s.Width, s.Height))
		}
		return nil
	case SizeFitWidth:
		if s.Width < 1 || s.Width > MaxDimension {
			return apperrors.InvalidConfig(fmt.Sprintf(
				"width must be between 1 and %d pixels, got: %d", MaxDimension, s.Width))
		}
		return nil
	case SizeFitHeight:
		if s.Height < 1 || s.Height > MaxDimension {
			return apperrors.InvalidConfig(fmt.Sprintf(
				"height must be between 1 and %d pixels, got: %d", MaxDimension, s.Height))
		}
		return nil
	}
	return apperrors.InvalidConfig(fmt.Sprintf("unknown size type: %q", s.Type))
}

// Wire format is adjacently tagged: {"type": "...", "value": ...}.

type positionEnvelope struct {
	Type  PositionType    `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type customPositionValue struct {
	XPercent float64 `json:"x_percent"`
	YPercent float64 `json:"y_percent"`
}

func (p Position) MarshalJSON() ([]byte, error) {
	env := positionEnvelope{Type: p.Type}

	var err error
	switch p.Type {
	case PositionCorner:
		env.Value, err = json.Marshal(p.Corner)
	case PositionEdge:
		env.Value, err = json.Marshal(p.Edge)
	case PositionCustom:
		env.Value, err = json.Marshal(customPositionValue{XPercent: p.XPercent, YPercent: p.YPercent})
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(env)
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var env positionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	p.Type = env.Type
	switch env.Type {
	case PositionCorner:
		return json.Unmarshal(env.Value, &p.Corner)
	case PositionEdge:
		return json.Unmarshal(env.Value, &p.Edge)
	case PositionCenter:
		return nil
	case PositionCustom:
		var v customPositionValue
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return err
		}
		p.XPercent, p.YPercent = v.XPercent, v.YPercent
		return nil
	}
	return fmt.Errorf("unknown position type: %q", env.Type)
}

type sizeEnvelope struct {
	Type  SizeType        `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type absoluteSizeValue struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) MarshalJSON() ([]byte, error) {
	env := sizeEnvelope{Type: s.Type}

	var err error
	switch s.Type {
	case SizePercentage:
		env.Value, err = json.Marshal(s.Percent)
	case SizeAbsolute:
		env.Value, err = json.Marshal(absoluteSizeValue{Width: s.Width, Height: s.Height})
	case SizeFitWidth:
		env.Value, err = json.Marshal(s.Width)
	case SizeFitHeight:
		env.Value, err = json.Marshal(s.Height)
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(env)
}

func (s *Size) UnmarshalJSON(data []byte) error {
	var env sizeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	s.Type = env.Type
	switch env.Type {
	case SizePercentage:
		return json.Unmarshal(env.Value, &s.Percent)
	case SizeAbsolute:
		var v absoluteSizeValue
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return err
		}
		s.Width, s.Height = v.Width, v.Height
		return nil
	case SizeFitWidth:
		return json.Unmarshal(env.Value, &s.Width)
	case SizeFitHeight:
		return json.Unmarshal(env.Value, &s.Height)
	}
	return fmt.Errorf("unknown size type: %q", env.Type)
}
