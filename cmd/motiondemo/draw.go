package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/motion"
)

var (
	boxColor    = color.RGBA{R: 0x4d, G: 0xb3, B: 0xff, A: 0xff}
	trackColor  = color.RGBA{R: 0x33, G: 0x33, B: 0x40, A: 0xff}
	fillColor   = color.RGBA{R: 0xff, G: 0x00, B: 0x88, A: 0xff}
	handleColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

var whitePixelImage *ebiten.Image

// whitePixel returns a lazily-initialized 1x1 white image that rectangles are
// stretched from.
func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

// affineGeoM converts a motion.Matrix into an ebiten.GeoM.
func affineGeoM(m motion.Matrix) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// drawRect fills a w x h rectangle transformed by m.
func drawRect(dst *ebiten.Image, w, h float64, m motion.Matrix, clr color.Color, alpha float64) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Concat(affineGeoM(m))
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(float32(motion.Clamp(alpha, 0, 1)))
	dst.DrawImage(whitePixel(), &op)
}

func (s *presenceScreen) draw(dst *ebiten.Image) {
	for _, sub := range s.p.Subjects() {
		pose := sub.Pose()
		drawRect(dst, boxSize, boxSize, boxMatrix(pose), boxColor, pose.Opacity)
	}
	state := "unmounted"
	if sub := s.p.Subject(presenceID); sub != nil {
		state = sub.State().String()
	}
	ebitenutil.DebugPrintAt(dst, "state: "+state, 8, screenH-20)
}

func (s *followScreen) draw(dst *ebiten.Image) {
	m := motion.Translation(s.origin.X+s.x.Get(), s.origin.Y+s.y.Get())
	drawRect(dst, boxSize, boxSize, m, boxColor, 1)
}

func (s *counterScreen) draw(dst *ebiten.Image) {
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("%d", s.rounded.Get()), screenW/2-8, screenH/2-8)
}

func (s *sliderScreen) draw(dst *ebiten.Image) {
	t := sliderTrack
	drawRect(dst, t.Width, t.Height, motion.Translation(t.Left, t.Top), trackColor, 1)
	fill := s.fill.Get()
	drawRect(dst, t.Width, fill, motion.Translation(t.Left, t.Top+t.Height-fill), fillColor, 1)
	drawRect(dst, t.Width+16, 6, motion.Translation(t.Left-8, t.Top+s.handle.Get()-3), handleColor, 1)
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("%d%%", s.percent.Get()), int(t.Left+t.Width)+16, int(t.Top))
}
