package preview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/explainer/internal/layout"
	"github.com/ivlev/explainer/internal/validator"
)

func el(id string, x, y, w, h float64) layout.Element {
	return layout.Element{ID: id, Center: layout.Point{X: x, Y: y}, Size: layout.Size{W: w, H: h}}
}

func TestNewRendererBounds(t *testing.T) {
	r, err := NewRenderer(layout.NewFrame(16, 9), 1920)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	// 16x9 frame plus 10% margin each side keeps the aspect ratio.
	if got := r.Bounds(); got.Dx() != 1920 || got.Dy() != 1080 {
		t.Errorf("Expected 1920x1080, got %v", got)
	}

	if _, err := NewRenderer(layout.Frame{}, 100); err != validator.ErrMissingFrame {
		t.Errorf("Expected ErrMissingFrame, got %v", err)
	}
}

func TestRenderMarksFlaggedElements(t *testing.T) {
	r, err := NewRenderer(layout.NewFrame(16, 9), 640)
	if err != nil {
		t.Fatal(err)
	}
	ok := el("ok", -4, 0, 2, 2)
	bad := el("bad", 4, 0, 2, 2)
	marks := map[string]validator.Severity{"bad": validator.SeverityError}

	img := r.Render("", []layout.Element{ok, bad}, marks)
	defer r.Release(img)

	okRect := r.pixelRect(ok.Box())
	badRect := r.pixelRect(bad.Box())
	midOK := (okRect.Min.Y + okRect.Max.Y) / 2
	midBad := (badRect.Min.Y + badRect.Max.Y) / 2

	if got := img.RGBAAt(okRect.Min.X, midOK); got != colorElement {
		t.Errorf("Expected element color on left edge, got %v", got)
	}
	if got := img.RGBAAt(badRect.Min.X, midBad); got != colorError {
		t.Errorf("Expected error color on flagged element, got %v", got)
	}
	if got := img.RGBAAt(1, r.Bounds().Dy()-2); got != colorBackground {
		t.Errorf("Expected background in corner, got %v", got)
	}
}

func TestRenderReusesCanvas(t *testing.T) {
	r, err := NewRenderer(layout.NewFrame(16, 9), 320)
	if err != nil {
		t.Fatal(err)
	}
	img := r.Render("first", []layout.Element{el("a", 0, 0, 4, 4)}, nil)
	r.Release(img)

	// A reused canvas must come back cleared.
	img = r.Render("", nil, nil)
	defer r.Release(img)
	center := r.Bounds().Dx() / 2
	if got := img.RGBAAt(center, r.Bounds().Dy()/2); got != colorBackground {
		t.Errorf("Expected cleared canvas, got %v", got)
	}
}

func TestMarks(t *testing.T) {
	violations := []validator.Violation{
		&validator.Overlap{Location: validator.Location{Scene: "s"}, A: "a", B: "b", Ratio: 0.4},
		&validator.OutOfBounds{Location: validator.Location{Scene: "s"}, Element: "b", Severity: validator.SeverityError},
	}

	m := Marks(violations)
	if len(m) != 2 {
		t.Fatalf("Expected 2 marked elements, got %v", m)
	}
	if m["a"] != validator.SeverityWarning || m["b"] != validator.SeverityError {
		t.Errorf("Unexpected marks: %v", m)
	}
}

func TestWriteTimelineMarksOnlyCurrentViolations(t *testing.T) {
	r, err := NewRenderer(layout.DefaultFrame(), 640)
	if err != nil {
		t.Fatal(err)
	}
	v, err := validator.New(validator.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	// a and b overlap in step 1 and are moved apart in step 2.
	tl := layout.Timeline{ID: "s", Steps: [][]layout.Element{
		{el("a", -1, 0, 2, 2), el("b", -0.5, 0, 2, 2)},
		{el("a", -4, 0, 2, 2), el("b", 4, 0, 2, 2)},
	}}

	paths, err := r.WriteTimeline(t.TempDir(), tl, v)
	if err != nil {
		t.Fatalf("WriteTimeline failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Expected 2 images, got %v", paths)
	}

	tests := []struct {
		path string
		a    layout.Element
		want color.RGBA
	}{
		{paths[0], tl.Steps[0][0], colorError},
		{paths[1], tl.Steps[1][0], colorElement},
	}
	for _, tt := range tests {
		img := decodePNG(t, tt.path)
		rect := r.pixelRect(tt.a.Box())
		mid := (rect.Min.Y + rect.Max.Y) / 2
		got := color.RGBAModel.Convert(img.At(rect.Min.X, mid)).(color.RGBA)
		if got != tt.want {
			t.Errorf("%s: expected %v on a, got %v", filepath.Base(tt.path), tt.want, got)
		}
	}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	return img
}

func TestWriteTimeline(t *testing.T) {
	r, err := NewRenderer(layout.DefaultFrame(), 256)
	if err != nil {
		t.Fatal(err)
	}
	tl := layout.Timeline{ID: "Scene2_Tokenization", Steps: [][]layout.Element{
		{el("title", 0, 3, 6, 1)},
		{el("title", 0, 3, 6, 1), el("tokens", 0, 0, 12, 1.5)},
	}}

	dir := t.TempDir()
	paths, err := r.WriteTimeline(dir, tl, nil)
	if err != nil {
		t.Fatalf("WriteTimeline failed: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[1]) != "Scene2_Tokenization_step02.png" {
		t.Fatalf("Unexpected paths: %v", paths)
	}

	img := decodePNG(t, paths[0])
	if img.Bounds() != r.Bounds() {
		t.Errorf("Expected bounds %v, got %v", r.Bounds(), img.Bounds())
	}
}

func TestCanvasPool(t *testing.T) {
	p := newCanvasPool()
	rect := image.Rect(0, 0, 10, 5)
	img := p.Get(rect)
	if img.Rect != rect {
		t.Fatalf("Expected %v, got %v", rect, img.Rect)
	}
	p.Put(img)
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))
	p.Put(nil)
	if got := p.Get(rect); got.Rect != rect {
		t.Errorf("Expected %v, got %v", rect, got.Rect)
	}
}
