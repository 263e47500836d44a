package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/invitely/invitely/editor-go/internal/document"
	"github.com/invitely/invitely/editor-go/internal/engine"
	"github.com/invitely/invitely/editor-go/internal/render"
	"github.com/invitely/invitely/editor-go/internal/scene"
	"github.com/invitely/invitely/editor-go/internal/typeid"
)

const (
	maxUploadSize = 32 << 20 // canvases may embed data URL images
	maxScale      = 4
)

// Handler renders posted canvases to PNG.
type Handler struct {
	raster   *Rasterizer
	resolver engine.Resolver
}

// NewHandler creates an export handler decoding images with resolver.
func NewHandler(resolver engine.Resolver) (*Handler, error) {
	raster, err := NewRasterizer()
	if err != nil {
		return nil, err
	}
	return &Handler{raster: raster, resolver: resolver}, nil
}

// ExportPNG handles POST /export/png. The body is a saved canvas; the
// optional scale query parameter (1 to 4) multiplies the resolution.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "request too large", http.StatusBadRequest)
		return
	}
	data, err := document.Parse(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	scale := 1.0
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err = strconv.ParseFloat(v, 64)
		if err != nil || scale < 1 || scale > maxScale {
			http.Error(w, "invalid scale: must be between 1 and 4", http.StatusBadRequest)
			return
		}
	}

	images := h.decodeImages(r, data)
	img, err := h.raster.Rasterize(engine.RenderData(data, images), images, scale)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		slog.Error("encode export", "error", err)
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}

	exportID := typeid.NewExportID()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, exportID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())

	slog.Info("export complete", "export", exportID, "objects", len(data.Objects), "size", buf.Len())
}

// decodeImages resolves every source the canvas draws. Failed sources are
// left out of the export.
func (h *Handler) decodeImages(r *http.Request, data document.CanvasData) *render.ImageCache {
	images := render.NewImageCache()
	if h.resolver == nil {
		return images
	}
	for _, src := range Sources(data) {
		if !images.Request(src) {
			continue
		}
		img, err := h.resolver.Resolve(r.Context(), src)
		if err != nil {
			slog.Warn("export image", "error", err)
			images.Fail(src)
			continue
		}
		images.Resolve(src, img)
	}
	return images
}

// Sources lists the image sources a canvas references, background first.
func Sources(data document.CanvasData) []string {
	var out []string
	if data.BackgroundImage != "" {
		out = append(out, data.BackgroundImage)
	}
	for _, o := range data.Objects {
		if img, ok := o.Shape.(scene.Image); ok && img.Src != "" {
			out = append(out, img.Src)
		}
	}
	return out
}
