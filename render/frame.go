package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/crazy3lf/colorconv"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/ventrella/cluster"
)

// Mode selects how particles are drawn.
type Mode int

const (
	// Pixels draws one pixel per particle in its cluster color.
	Pixels Mode = iota
	// Speed draws one pixel per particle hued by its speed.
	Speed
	// Discs draws filled circles; it is handled by the window layer.
	Discs
	modeCount
)

func (m Mode) String() string {
	switch m {
	case Pixels:
		return "pixels"
	case Speed:
		return "speed"
	case Discs:
		return "discs"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Next cycles through the draw modes.
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

const (
	paletteSize = 256
	// SpeedScale is the speed, in pixels per update, drawn at the hot end of
	// the palette.
	SpeedScale = 2.0
)

var palette = genPalette()

// genPalette ramps hue from blue (still) to red (fast).
func genPalette() [paletteSize]color.RGBA {
	var p [paletteSize]color.RGBA
	for i := range p {
		hue := 240 * (1 - float64(i)/(paletteSize-1))
		r, g, b, _ := colorconv.HSVToRGB(hue, 1, 1)
		p[i] = color.RGBA{r, g, b, 255}
	}
	return p
}

// SpeedColor maps a velocity to the speed palette.
func SpeedColor(vel r2.Vec) color.RGBA {
	s := math.Min(r2.Norm(vel)/SpeedScale, 1)
	if math.IsNaN(s) {
		s = 1
	}
	return palette[int(s*(paletteSize-1))]
}

// Frame is a CPU-side RGBA pixel buffer, uploaded whole each frame.
type Frame struct {
	W, H int
	Pix  []byte
}

// Resize reallocates the buffer when the screen size changed.
func (f *Frame) Resize(w, h int) {
	if w == f.W && h == f.H && f.Pix != nil {
		return
	}
	f.W, f.H = w, h
	f.Pix = make([]byte, 4*w*h)
}

// Clear fills the whole buffer with bg.
func (f *Frame) Clear(bg color.RGBA) {
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i] = bg.R
		f.Pix[i+1] = bg.G
		f.Pix[i+2] = bg.B
		f.Pix[i+3] = bg.A
	}
}

// Plot sets the pixel containing pos. Off-screen positions are skipped.
func (f *Frame) Plot(pos r2.Vec, c color.RGBA) {
	x, y := math.Floor(pos.X), math.Floor(pos.Y)
	if !(x >= 0 && x < float64(f.W) && y >= 0 && y < float64(f.H)) {
		return
	}
	i := 4 * (int(y)*f.W + int(x))
	f.Pix[i] = c.R
	f.Pix[i+1] = c.G
	f.Pix[i+2] = c.B
	f.Pix[i+3] = c.A
}

// At returns the pixel at (x, y).
func (f *Frame) At(x, y int) color.RGBA {
	i := 4 * (y*f.W + x)
	return color.RGBA{f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]}
}

// DrawClusters plots every particle, clusters in order, so later clusters
// overdraw earlier ones.
func (f *Frame) DrawClusters(clusters []*cluster.Cluster, mode Mode) {
	for _, c := range clusters {
		for i := range c.Particles {
			p := &c.Particles[i]
			col := p.Color
			if mode == Speed {
				col = SpeedColor(p.Vel)
			}
			f.Plot(p.Pos, col)
		}
	}
}
