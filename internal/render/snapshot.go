package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// cellSize is the pixel footprint of one character cell in a PNG
// snapshot, sized for basicfont.Face7x13.
const (
	cellWidth  = 7
	cellHeight = 13
)

// ansiColor maps each Color tag to the 8-color terminal palette named
// in the external interfaces contract.
var ansiColor = map[Color]color.RGBA{
	ColorDefault: {200, 200, 200, 255},
	ColorGray:    {128, 128, 128, 255},
	ColorBlue:    {0, 0, 205, 255},
	ColorCyan:    {0, 205, 205, 255},
	ColorGreen:   {0, 205, 0, 255},
	ColorYellow:  {205, 205, 0, 255},
	ColorMagenta: {205, 0, 205, 255},
	ColorRed:     {205, 0, 0, 255},
	ColorWhite:   {255, 255, 255, 255},
}

// WriteSnapshot renders b to w as a PNG, one basicfont.Face7x13 glyph
// per cell, black background. It is a non-interactive escape hatch for
// --headless --snapshot and for tests that want a visual artifact
// without a terminal.
func WriteSnapshot(w io.Writer, b *RasterBuffer) error {
	img := image.NewRGBA(image.Rect(0, 0, b.Width*cellWidth, b.Height*cellHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			cell := b.at(x, y)
			if cell.Glyph == ' ' || cell.Glyph == 0 {
				continue
			}
			col, ok := ansiColor[cell.Color]
			if !ok {
				col = ansiColor[ColorDefault]
			}
			drawGlyph(img, face, x*cellWidth, y*cellHeight, cell.Glyph, col)
		}
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encoding snapshot: %w", err)
	}
	return nil
}

// drawGlyph draws a single rune at the cell whose top-left pixel is
// (px,py) using face, in col.
func drawGlyph(img *image.RGBA, face font.Face, px, py int, r rune, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(px),
			Y: fixed.I(py + cellHeight - 3), // baseline near the cell's bottom
		},
	}
	d.DrawString(string(r))
}
