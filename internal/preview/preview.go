// Package preview draws scene layouts as PNG images: the frame outline,
// every element box with its id, and flagged elements highlighted.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/explainer/internal/layout"
	"github.com/ivlev/explainer/internal/validator"
)

// DefaultWidth is the canvas width in pixels.
const DefaultWidth = 1280

// viewMargin is the fraction of the frame shown around it, so elements
// that leave the frame stay visible.
const viewMargin = 0.1

var (
	colorBackground = color.RGBA{0x1e, 0x1e, 0x24, 0xff}
	colorFrame      = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	colorElement    = color.RGBA{0x58, 0xa6, 0xff, 0xff}
	colorGroup      = color.RGBA{0x6e, 0x76, 0x81, 0xff}
	colorWarning    = color.RGBA{0xf0, 0xa0, 0x20, 0xff}
	colorError      = color.RGBA{0xff, 0x40, 0x40, 0xff}
	colorLabel      = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// Renderer maps frame coordinates onto a pixel canvas.
type Renderer struct {
	frame layout.Frame
	view  layout.Box
	scale float64
	rect  image.Rectangle
	pool  *canvasPool
}

// NewRenderer returns a renderer for frame at the given pixel width.
func NewRenderer(frame layout.Frame, width int) (*Renderer, error) {
	if !frame.Valid() {
		return nil, validator.ErrMissingFrame
	}
	if width <= 0 {
		width = DefaultWidth
	}

	mx, my := frame.Width()*viewMargin, frame.Height()*viewMargin
	view := layout.Box{
		MinX: frame.MinX - mx, MinY: frame.MinY - my,
		MaxX: frame.MaxX + mx, MaxY: frame.MaxY + my,
	}
	scale := float64(width) / view.Width()
	height := int(math.Round(view.Height() * scale))

	return &Renderer{
		frame: frame,
		view:  view,
		scale: scale,
		rect:  image.Rect(0, 0, width, height),
		pool:  newCanvasPool(),
	}, nil
}

// Bounds is the pixel size of every rendered image.
func (r *Renderer) Bounds() image.Rectangle { return r.rect }

// Render draws one snapshot. marks colors flagged elements by severity.
// The caller returns the canvas with Release when done.
func (r *Renderer) Render(title string, elements []layout.Element, marks map[string]validator.Severity) *image.RGBA {
	img := r.pool.Get(r.rect)
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	r.strokeBox(img, r.frame.Box, colorFrame, 2)

	// Groups first so their children's outlines stay on top.
	for _, pass := range []bool{true, false} {
		for _, e := range elements {
			if (e.Kind == "group") != pass {
				continue
			}
			c := colorElement
			if pass {
				c = colorGroup
			}
			thickness := 1
			if sev, ok := marks[e.ID]; ok {
				c, thickness = severityColor(sev), 3
			}
			box := e.Box()
			r.fillBox(img, box, tint(c, 0x30))
			r.strokeBox(img, box, c, thickness)
			x0, y0 := r.toPixel(box.MinX, box.MaxY)
			drawLabel(img, e.ID, x0+4, y0+14, colorLabel)
		}
	}

	if title != "" {
		drawLabel(img, title, 8, 16, colorFrame)
	}
	return img
}

// Release returns a canvas obtained from Render.
func (r *Renderer) Release(img *image.RGBA) {
	r.pool.Put(img)
}

// WriteTimeline renders every step of t into dir as <scene>_step<N>.png
// and returns the written paths. Each step is checked on its own with v,
// so an element is highlighted only while it is in violation. v may be nil.
func (r *Renderer) WriteTimeline(dir string, t layout.Timeline, v *validator.Validator) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var paths []string
	for i, elements := range t.Steps {
		step := i + 1
		var marks map[string]validator.Severity
		if v != nil {
			rep, err := v.Validate([]layout.Scene{{ID: t.ID, Elements: elements}}, r.frame)
			if err != nil {
				return paths, fmt.Errorf("step %d: %w", step, err)
			}
			marks = Marks(rep.All())
		}

		title := t.ID
		if len(t.Steps) > 1 {
			title = fmt.Sprintf("%s  step %d/%d", t.ID, step, len(t.Steps))
		}
		img := r.Render(title, elements, marks)
		path := filepath.Join(dir, fmt.Sprintf("%s_step%02d.png", t.ID, step))
		err := writePNG(path, img)
		r.Release(img)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Marks keeps the highest severity per flagged element.
func Marks(violations []validator.Violation) map[string]validator.Severity {
	marks := make(map[string]validator.Severity)
	for _, v := range violations {
		for _, id := range v.Subjects() {
			if cur, ok := marks[id]; !ok || v.Level() > cur {
				marks[id] = v.Level()
			}
		}
	}
	return marks
}

func (r *Renderer) toPixel(x, y float64) (int, int) {
	px := (x - r.view.MinX) * r.scale
	py := (r.view.MaxY - y) * r.scale
	return int(math.Round(px)), int(math.Round(py))
}

func (r *Renderer) pixelRect(b layout.Box) image.Rectangle {
	x0, y0 := r.toPixel(b.MinX, b.MaxY)
	x1, y1 := r.toPixel(b.MaxX, b.MinY)
	return image.Rect(x0, y0, x1, y1)
}

func (r *Renderer) fillBox(img *image.RGBA, b layout.Box, c color.RGBA) {
	rect := r.pixelRect(b).Intersect(img.Bounds())
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Over)
}

func (r *Renderer) strokeBox(img *image.RGBA, b layout.Box, c color.RGBA, t int) {
	rect := r.pixelRect(b)
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+t),
		image.Rect(rect.Min.X, rect.Max.Y-t, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+t, rect.Max.Y),
		image.Rect(rect.Max.X-t, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(img.Bounds()), src, image.Point{}, draw.Src)
	}
}

func drawLabel(img *image.RGBA, label string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}

// tint returns c at alpha a, premultiplied as color.RGBA requires.
func tint(c color.RGBA, a uint8) color.RGBA {
	scale := func(v uint8) uint8 { return uint8(uint16(v) * uint16(a) / 0xff) }
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), a}
}

func severityColor(s validator.Severity) color.RGBA {
	if s == validator.SeverityError {
		return colorError
	}
	return colorWarning
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
