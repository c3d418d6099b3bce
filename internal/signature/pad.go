// Package signature implements a freehand signature capture surface.
// Strokes are drawn onto a fixed logical-resolution canvas and exposed
// as a base64-encoded PNG raster, with full re-hydration from a
// previously stored encoding. Input coordinates are rescaled from the
// displayed size to the canvas's logical size, so the drawing surface
// may be shown at any size without distorting the stored raster.
package signature

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/canopy-labs/proctor-cli/internal/logger"
)

// Logical canvas resolution, independent of displayed size.
const (
	LogicalWidth  = 800
	LogicalHeight = 400
)

// penRadius is the half-thickness of a stroke in logical pixels.
const penRadius = 2

// dataURLPrefix is stripped from stored encodings when present.
const dataURLPrefix = "data:image/png;base64,"

// Point is a single input coordinate. The pad does not care whether it
// came from a mouse, touch or synthetic source; all inputs share one
// stroke path.
type Point struct {
	X float64
	Y float64
}

// Pad is the signature capture surface.
type Pad struct {
	canvas   *image.RGBA
	displayW float64
	displayH float64
	readonly bool
	onChange func(encoding string)

	drawing bool
	last    Point
	inked   bool
}

// NewPad creates a blank pad. onChange receives the current encoding
// after each completed stroke and after Clear; it may be nil.
func NewPad(onChange func(string)) *Pad {
	p := &Pad{
		displayW: LogicalWidth,
		displayH: LogicalHeight,
		onChange: onChange,
	}
	p.reset()
	return p
}

// reset replaces the canvas with a blank white surface.
func (p *Pad) reset() {
	p.canvas = image.NewRGBA(image.Rect(0, 0, LogicalWidth, LogicalHeight))
	draw.Draw(p.canvas, p.canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	p.inked = false
	p.drawing = false
}

// SetDisplaySize records the on-screen size of the pad. Input points
// are rescaled by (logical/display) per axis before drawing. Zero or
// negative sizes are ignored.
func (p *Pad) SetDisplaySize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	p.displayW = width
	p.displayH = height
}

// SetReadonly disables stroke input while keeping the raster visible.
func (p *Pad) SetReadonly(readonly bool) {
	p.readonly = readonly
}

// Readonly reports whether stroke input is disabled.
func (p *Pad) Readonly() bool {
	return p.readonly
}

// Load hydrates the canvas from a stored encoding. An empty encoding
// blanks the canvas; a corrupt encoding is treated as empty rather
// than propagated as an error.
func (p *Pad) Load(encoding string) {
	p.reset()
	if encoding == "" {
		return
	}

	raw := strings.TrimPrefix(encoding, dataURLPrefix)
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		logger.Debug("signature decode failed, treating as empty: %v", err)
		return
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Debug("signature PNG decode failed, treating as empty: %v", err)
		return
	}

	draw.Draw(p.canvas, p.canvas.Bounds(), img, img.Bounds().Min, draw.Src)
	p.inked = true
}

// StrokeBegin starts a stroke path at a display-space point.
func (p *Pad) StrokeBegin(pt Point) {
	if p.readonly {
		return
	}
	p.drawing = true
	p.last = p.toLogical(pt)
	p.dot(p.last)
	p.inked = true
}

// StrokeMove extends the current stroke path with a line segment.
// Points arriving while no stroke is active are ignored.
func (p *Pad) StrokeMove(pt Point) {
	if p.readonly || !p.drawing {
		return
	}
	next := p.toLogical(pt)
	p.line(p.last, next)
	p.last = next
	p.inked = true
}

// StrokeEnd commits the stroke and emits the current canvas encoding.
func (p *Pad) StrokeEnd() {
	if p.readonly || !p.drawing {
		return
	}
	p.drawing = false
	p.emit()
}

// Clear resets to a blank canvas and emits an empty encoding. The
// caller is responsible for not letting the triggering event reach
// underlying controls.
func (p *Pad) Clear() {
	if p.readonly {
		return
	}
	p.reset()
	if p.onChange != nil {
		p.onChange("")
	}
}

// Encode returns the current canvas as a base64 PNG, or "" when no ink
// has been applied.
func (p *Pad) Encode() string {
	if !p.inked {
		return ""
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.canvas); err != nil {
		logger.Warn("signature encode failed: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// Image exposes the canvas raster for rendering and tests.
func (p *Pad) Image() *image.RGBA {
	return p.canvas
}

// Empty reports whether the canvas holds any ink.
func (p *Pad) Empty() bool {
	return !p.inked
}

func (p *Pad) emit() {
	if p.onChange == nil {
		return
	}
	p.onChange(p.Encode())
}

// toLogical rescales a display-space point into logical canvas space.
func (p *Pad) toLogical(pt Point) Point {
	return Point{
		X: pt.X * LogicalWidth / p.displayW,
		Y: pt.Y * LogicalHeight / p.displayH,
	}
}

// dot paints a filled disc of penRadius at a logical point.
func (p *Pad) dot(pt Point) {
	cx, cy := int(pt.X), int(pt.Y)
	for dy := -penRadius; dy <= penRadius; dy++ {
		for dx := -penRadius; dx <= penRadius; dx++ {
			if dx*dx+dy*dy > penRadius*penRadius {
				continue
			}
			x, y := cx+dx, cy+dy
			if x < 0 || x >= LogicalWidth || y < 0 || y >= LogicalHeight {
				continue
			}
			p.canvas.Set(x, y, color.Black)
		}
	}
}

// line paints a segment between two logical points using integer
// stepping (Bresenham).
func (p *Pad) line(from, to Point) {
	x0, y0 := int(from.X), int(from.Y)
	x1, y1 := int(to.X), int(to.Y)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		p.dot(Point{X: float64(x0), Y: float64(y0)})
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
