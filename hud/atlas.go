package hud

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	AtlasSize    = 512
	glyphPadding = 2
)

// TextVertex matches the text shader vertex input.
type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

type TextItem struct {
	Text     string
	Position [2]float32 // pixels from the top-left corner of the surface
	Scale    float32
	Color    [4]float32
}

// Glyph is where one rune lives in the atlas and how it sits on the baseline.
type Glyph struct {
	Rect    image.Rectangle // atlas pixels
	Bearing image.Point     // top-left offset from the pen position
	Advance float32
}

// UV returns the normalized atlas corners of the glyph.
func (g Glyph) UV() (u0, v0, u1, v1 float32) {
	return float32(g.Rect.Min.X) / AtlasSize, float32(g.Rect.Min.Y) / AtlasSize,
		float32(g.Rect.Max.X) / AtlasSize, float32(g.Rect.Max.Y) / AtlasSize
}

// Atlas is a single-channel glyph texture for printable ASCII.
type Atlas struct {
	Image  *image.Alpha
	Glyphs map[rune]Glyph
	Face   font.Face
}

// NewAtlas rasterizes the TrueType font at fontPath. An empty path uses the
// embedded Go Regular font.
func NewAtlas(fontPath string, fontSize float64) (*Atlas, error) {
	data := goregular.TTF
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", fontPath, err)
		}
		data = b
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return newAtlas(face), nil
}

// NewBasicAtlas uses the fixed 7x13 bitmap face. It cannot fail.
func NewBasicAtlas() *Atlas {
	return newAtlas(basicfont.Face7x13)
}

// shelfPacker places rectangles left to right in rows of the tallest item.
type shelfPacker struct {
	size      int
	pen       image.Point
	rowHeight int
}

func (p *shelfPacker) place(w, h int) (image.Point, bool) {
	if p.pen.X+w+glyphPadding > p.size {
		p.pen = image.Pt(glyphPadding, p.pen.Y+p.rowHeight+glyphPadding)
		p.rowHeight = 0
	}
	if p.pen.Y+h+glyphPadding > p.size {
		return image.Point{}, false
	}
	at := p.pen
	p.pen.X += w + glyphPadding
	p.rowHeight = max(p.rowHeight, h)
	return at, true
}

func newAtlas(face font.Face) *Atlas {
	a := &Atlas{
		Image:  image.NewAlpha(image.Rect(0, 0, AtlasSize, AtlasSize)),
		Glyphs: make(map[rune]Glyph),
		Face:   face,
	}
	packer := shelfPacker{size: AtlasSize, pen: image.Pt(glyphPadding, glyphPadding)}

	for r := rune(' '); r <= '~'; r++ {
		bounds, mask, maskp, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		at, ok := packer.place(bounds.Dx(), bounds.Dy())
		if !ok {
			break
		}
		dst := image.Rectangle{Min: at, Max: at.Add(bounds.Size())}
		draw.Draw(a.Image, dst, mask, maskp, draw.Src)

		a.Glyphs[r] = Glyph{Rect: dst, Bearing: bounds.Min, Advance: float32(adv) / 64}
	}
	return a
}

// BuildVertices lays out items as two triangles per glyph in the NDC space
// of a screenW x screenH surface. Text may span several lines.
func (a *Atlas) BuildVertices(items []TextItem, screenW, screenH int) []TextVertex {
	if a == nil || screenW <= 0 || screenH <= 0 {
		return nil
	}
	sw, sh := float32(screenW), float32(screenH)
	ascent := float32(a.Face.Metrics().Ascent.Ceil())

	var vertices []TextVertex
	for _, item := range items {
		baseline := item.Position[1] + ascent*item.Scale
		for _, line := range strings.Split(item.Text, "\n") {
			pen := item.Position[0]
			for _, r := range line {
				g, ok := a.Glyphs[r]
				if !ok {
					continue
				}
				x0 := pen + float32(g.Bearing.X)*item.Scale
				y0 := baseline + float32(g.Bearing.Y)*item.Scale
				x1 := x0 + float32(g.Rect.Dx())*item.Scale
				y1 := y0 + float32(g.Rect.Dy())*item.Scale
				vertices = appendQuad(vertices, g,
					[2]float32{x0/sw*2 - 1, 1 - y0/sh*2},
					[2]float32{x1/sw*2 - 1, 1 - y1/sh*2},
					item.Color)
				pen += g.Advance * item.Scale
			}
			baseline += a.LineHeight(item.Scale)
		}
	}
	return vertices
}

// appendQuad adds the glyph quad with top-left p0 and bottom-right p1.
func appendQuad(dst []TextVertex, g Glyph, p0, p1 [2]float32, color [4]float32) []TextVertex {
	u0, v0, u1, v1 := g.UV()
	tl := TextVertex{Pos: p0, UV: [2]float32{u0, v0}, Color: color}
	tr := TextVertex{Pos: [2]float32{p1[0], p0[1]}, UV: [2]float32{u1, v0}, Color: color}
	bl := TextVertex{Pos: [2]float32{p0[0], p1[1]}, UV: [2]float32{u0, v1}, Color: color}
	br := TextVertex{Pos: p1, UV: [2]float32{u1, v1}, Color: color}
	return append(dst, tl, tr, bl, tr, br, bl)
}

// MeasureText returns the width of the longest line and the total height.
func (a *Atlas) MeasureText(text string, scale float32) (float32, float32) {
	if a == nil {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	var width float32
	for _, line := range lines {
		var w float32
		for _, r := range line {
			w += a.Glyphs[r].Advance * scale
		}
		width = max(width, w)
	}
	return width, a.LineHeight(scale) * float32(len(lines))
}

func (a *Atlas) LineHeight(scale float32) float32 {
	if a == nil {
		return 0
	}
	return float32(a.Face.Metrics().Height.Ceil()) * scale
}
