package signature

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPad_StartsEmpty(t *testing.T) {
	p := NewPad(nil)

	assert.True(t, p.Empty())
	assert.Equal(t, "", p.Encode())
}

func TestPad_DrawEmitsEncodingOnStrokeEnd(t *testing.T) {
	var emitted []string
	p := NewPad(func(enc string) { emitted = append(emitted, enc) })

	p.StrokeBegin(Point{X: 100, Y: 100})
	p.StrokeMove(Point{X: 200, Y: 150})
	assert.Empty(t, emitted, "nothing emitted before pointer-up")

	p.StrokeEnd()

	require.Len(t, emitted, 1)
	assert.NotEmpty(t, emitted[0])
	assert.False(t, p.Empty())
}

func TestPad_StrokeMoveWithoutBeginIsIgnored(t *testing.T) {
	p := NewPad(nil)

	p.StrokeMove(Point{X: 100, Y: 100})
	p.StrokeEnd()

	assert.True(t, p.Empty())
}

func TestPad_DrawThenClearYieldsEmptyEncoding(t *testing.T) {
	var last string
	p := NewPad(func(enc string) { last = enc })

	p.StrokeBegin(Point{X: 50, Y: 50})
	p.StrokeMove(Point{X: 300, Y: 200})
	p.StrokeEnd()
	require.NotEmpty(t, last)

	p.Clear()

	assert.Equal(t, "", last)
	assert.True(t, p.Empty())
	assert.Equal(t, "", p.Encode())
}

func TestPad_LoadEncodeRoundTrip(t *testing.T) {
	src := NewPad(nil)
	src.StrokeBegin(Point{X: 100, Y: 100})
	src.StrokeMove(Point{X: 400, Y: 300})
	src.StrokeEnd()
	encoded := src.Encode()
	require.NotEmpty(t, encoded)

	dst := NewPad(nil)
	dst.Load(encoded)

	// Re-encoding without drawing preserves the raster exactly.
	assert.Equal(t, encoded, dst.Encode())
	assert.False(t, dst.Empty())
}

func TestPad_LoadDataURLPrefix(t *testing.T) {
	src := NewPad(nil)
	src.StrokeBegin(Point{X: 10, Y: 10})
	src.StrokeEnd()
	encoded := src.Encode()

	dst := NewPad(nil)
	dst.Load("data:image/png;base64," + encoded)

	assert.Equal(t, encoded, dst.Encode())
}

func TestPad_LoadCorruptEncodingTreatedAsEmpty(t *testing.T) {
	p := NewPad(nil)

	p.Load("not-valid-base64!!!")
	assert.True(t, p.Empty())

	// Valid base64 but not a PNG.
	p.Load("aGVsbG8gd29ybGQ=")
	assert.True(t, p.Empty())
}

func TestPad_LoadEmptyBlanksCanvas(t *testing.T) {
	p := NewPad(nil)
	p.StrokeBegin(Point{X: 10, Y: 10})
	p.StrokeEnd()

	p.Load("")

	assert.True(t, p.Empty())
}

func TestPad_CoordinatesRescaleFromDisplaySize(t *testing.T) {
	p := NewPad(nil)
	// Displayed at half the logical size in both axes.
	p.SetDisplaySize(LogicalWidth/2, LogicalHeight/2)

	// A point at the display centre lands at the logical centre.
	p.StrokeBegin(Point{X: LogicalWidth / 4, Y: LogicalHeight / 4})
	p.StrokeEnd()

	r, g, b, _ := p.Image().At(LogicalWidth/2, LogicalHeight/2).RGBA()
	assert.Equal(t, color.RGBAModel.Convert(color.Black), color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255})
}

func TestPad_InvalidDisplaySizeIgnored(t *testing.T) {
	p := NewPad(nil)
	p.SetDisplaySize(0, 0)
	p.SetDisplaySize(-10, 50)

	// Drawing still works at the default 1:1 mapping.
	p.StrokeBegin(Point{X: 20, Y: 20})
	p.StrokeEnd()
	assert.False(t, p.Empty())
}

func TestPad_ReadonlyDisablesDrawing(t *testing.T) {
	var emissions int
	p := NewPad(func(string) { emissions++ })
	p.SetReadonly(true)

	p.StrokeBegin(Point{X: 100, Y: 100})
	p.StrokeMove(Point{X: 200, Y: 200})
	p.StrokeEnd()
	p.Clear()

	assert.True(t, p.Empty())
	assert.Equal(t, 0, emissions)
}

func TestPad_ReadonlyKeepsLoadedImageVisible(t *testing.T) {
	src := NewPad(nil)
	src.StrokeBegin(Point{X: 100, Y: 100})
	src.StrokeEnd()
	encoded := src.Encode()

	p := NewPad(nil)
	p.Load(encoded)
	p.SetReadonly(true)

	assert.False(t, p.Empty())
	assert.Equal(t, encoded, p.Encode())
}

func TestPad_StrokesClampToCanvas(t *testing.T) {
	p := NewPad(nil)

	// Off-canvas points must not panic.
	p.StrokeBegin(Point{X: -50, Y: -50})
	p.StrokeMove(Point{X: LogicalWidth + 50, Y: LogicalHeight + 50})
	p.StrokeEnd()

	assert.False(t, p.Empty())
}
