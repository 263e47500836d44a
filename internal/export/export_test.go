package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/invitely/invitely/editor-go/internal/render"
)

func rgba(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func newRasterizer(t *testing.T) *Rasterizer {
	t.Helper()
	r, err := NewRasterizer()
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func rect(x, y, w, h float64) []render.PathCommand {
	return []render.PathCommand{
		{"M", x, y}, {"L", x + w, y}, {"L", x + w, y + h}, {"L", x, y + h}, {"Z"},
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}, true},
		{"#0F0", color.NRGBA{G: 255, A: 255}, true},
		{"#0000ff80", color.NRGBA{B: 255, A: 128}, true},
		{"white", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, true},
		{"transparent", color.NRGBA{}, true},
		{"#12345", color.NRGBA{}, false},
		{"rgb(1,2,3)", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.in)
		if (err == nil) != tt.ok || (tt.ok && got != tt.want) {
			t.Errorf("parseColor(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestRasterizeFillsAndBackground(t *testing.T) {
	r := newRasterizer(t)
	s := render.Surface{
		Width: 40, Height: 20, Background: "#00ff00",
		Commands: []render.DrawCommand{{
			Op:        render.OpPath,
			Transform: render.Translate(10, 5).ToSlice(),
			Path:      rect(0, 0, 10, 10),
			Fill:      "#ff0000",
			Opacity:   1,
		}},
	}
	img, err := r.Rasterize(s, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("bounds = %v", b)
	}
	if c := rgba(img, 15, 10); c.R != 255 || c.G != 0 {
		t.Errorf("inside = %v", c)
	}
	if c := rgba(img, 2, 2); c.G != 255 || c.R != 0 {
		t.Errorf("background = %v", c)
	}
}

func TestRasterizeScale(t *testing.T) {
	r := newRasterizer(t)
	s := render.Surface{
		Width: 10, Height: 10,
		Commands: []render.DrawCommand{{
			Op: render.OpPath, Transform: render.Identity().ToSlice(),
			Path: rect(0, 0, 5, 5), Fill: "#000000", Opacity: 1,
		}},
	}
	img, err := r.Rasterize(s, nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 20 {
		t.Fatalf("bounds = %v", b)
	}
	if c := rgba(img, 8, 8); c.R != 0 {
		t.Errorf("scaled shape missing at (8, 8): %v", c)
	}
	if c := rgba(img, 12, 12); c.R != 255 {
		t.Errorf("shape overflowed to (12, 12): %v", c)
	}

	if _, err := r.Rasterize(render.Surface{Width: 0, Height: 10}, nil, 1); !errors.Is(err, ErrBadSize) {
		t.Errorf("empty surface: %v", err)
	}
}

func TestRasterizeGradientAndSkipsSelection(t *testing.T) {
	r := newRasterizer(t)
	s := render.Surface{
		Width: 100, Height: 10,
		Commands: []render.DrawCommand{
			{
				Op: render.OpPath, Transform: render.Identity().ToSlice(),
				Path: rect(0, 0, 100, 10), Fill: "#000000", Opacity: 1,
				Gradient: &render.GradientPaint{Type: "linear", Start: "#ff0000", End: "#0000ff", X0: 0, Y0: 5, X1: 100, Y1: 5},
			},
			{
				Op: render.OpPath, Role: render.RoleSelection, Transform: render.Identity().ToSlice(),
				Path: rect(0, 0, 100, 10), Fill: "#00ff00", Opacity: 1,
			},
		},
	}
	img, err := r.Rasterize(s, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	left, right := rgba(img, 2, 5), rgba(img, 97, 5)
	if left.R < 200 || left.B > 50 || right.B < 200 || right.R > 50 {
		t.Fatalf("left = %v, right = %v", left, right)
	}
	if left.G != 0 {
		t.Error("selection overlay was exported")
	}
}

func TestRasterizeImageAndText(t *testing.T) {
	r := newRasterizer(t)
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	images := render.NewImageCache()
	images.Request("blue.png")
	images.Resolve("blue.png", src)

	s := render.Surface{
		Width: 100, Height: 60,
		Commands: []render.DrawCommand{
			{
				Op: render.OpImage, Transform: render.Identity().ToSlice(), Opacity: 1,
				ImageSrc: "blue.png", ImageWidth: 20, ImageHeight: 20,
			},
			{
				Op: render.OpText, Transform: render.Translate(0, 30).ToSlice(), Opacity: 1,
				Text: "Hello", FontSize: 24, Fill: "#000000",
			},
		},
	}
	img, err := r.Rasterize(s, images, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c := rgba(img, 10, 10); c.B < 200 || c.R > 50 {
		t.Errorf("image pixel = %v", c)
	}

	dark := 0
	for y := 30; y < 60; y++ {
		for x := 0; x < 100; x++ {
			if rgba(img, x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("text drew nothing")
	}
}

type fixedResolver struct{ img image.Image }

func (f fixedResolver) Resolve(context.Context, string) (image.Image, error) { return f.img, nil }

func TestExportPNGHandler(t *testing.T) {
	h, err := NewHandler(fixedResolver{img: image.NewRGBA(image.Rect(0, 0, 1, 1))})
	if err != nil {
		t.Fatal(err)
	}
	body := `{"width":50,"height":40,"backgroundColor":"#ffffff","objects":[
		{"id":"r","type":"rect","x":0,"y":0,"width":10,"height":10,"fill":"#ff0000"},
		{"id":"i","type":"image","x":20,"y":0,"width":10,"height":10,"src":"a.png"}
	]}`

	req := httptest.NewRequest(http.MethodPost, "/export/png?scale=2", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ExportPNG(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content-type = %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Fatalf("bounds = %v", b)
	}
	if c := rgba(img, 5, 5); c.R != 255 || c.G != 0 {
		t.Errorf("rect pixel = %v", c)
	}

	for _, bad := range []struct{ url, body string }{
		{"/export/png", `{`},
		{"/export/png?scale=9", `{"objects":[]}`},
	} {
		rr := httptest.NewRecorder()
		h.ExportPNG(rr, httptest.NewRequest(http.MethodPost, bad.url, strings.NewReader(bad.body)))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s %s: status = %d", bad.url, bad.body, rr.Code)
		}
	}
}
