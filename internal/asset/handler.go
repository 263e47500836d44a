// Package asset stores uploaded images and resolves image sources for the
// editor.
package asset

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/go-chi/render"
	"github.com/gorilla/mux"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/invitely/invitely/editor-go/internal/typeid"
)

// maxUploadSize bounds a multipart upload body.
const maxUploadSize = 10 << 20

// ErrNotFound is returned for assets that are not stored.
var ErrNotFound = errors.New("asset not found")

// UploadResponse describes a stored asset. URL is the path the editor puts
// into an image object's src; the resolver loads it back from disk.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	Name   string `json:"name"`
}

// Handler stores uploaded images under dir, always as PNG.
type Handler struct {
	dir string
}

func NewHandler(dir string) *Handler {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir}
}

// Dir returns the storage directory.
func (h *Handler) Dir() string { return h.dir }

// Upload handles POST /assets/upload with the image in the "file" field.
// The format is sniffed from the bytes; the declared content type is ignored.
// Images over MaxSide or MaxPixels are refused before decoding.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 10MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}
	img, format, err := decode(data)
	switch {
	case errors.Is(err, ErrTooLarge):
		http.Error(w, fmt.Sprintf("image too large (max %dx%d)", MaxSide, MaxSide), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "only PNG, JPEG, GIF, WebP and BMP images are supported", http.StatusBadRequest)
		return
	}

	id := typeid.NewAssetID()
	name := id + ".png"
	if err := h.store(name, img); err != nil {
		slog.Error("store asset", "error", err, "asset", id)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}
	slog.Debug("asset stored", "asset", id, "format", format)

	size := img.Bounds().Size()
	render.JSON(w, r, UploadResponse{
		ID:     id,
		URL:    path.Join("/assets", name),
		Width:  size.X,
		Height: size.Y,
		Type:   format,
		Name:   header.Filename,
	})
}

func (h *Handler) store(name string, img image.Image) error {
	dst := filepath.Join(h.dir, name)
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create asset file: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("encode png: %w", err)
	}
	return out.Close()
}

// Serve serves stored files under /assets/. Names embed a unique id, so
// responses are cacheable forever.
func (h *Handler) Serve() http.Handler {
	files := http.StripPrefix("/assets/", http.FileServer(http.Dir(h.dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		files.ServeHTTP(w, r)
	})
}

// Remove handles DELETE /assets/{id}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	switch err := h.Delete(id); {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "asset not found", http.StatusNotFound)
	case err != nil:
		slog.Error("delete asset", "error", err, "asset", id)
		http.Error(w, "failed to delete asset", http.StatusInternalServerError)
	default:
		slog.Debug("asset deleted", "asset", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Delete removes a stored asset by id.
func (h *Handler) Delete(id string) error {
	if err := typeid.Validate(id, typeid.PrefixAsset); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := os.Remove(filepath.Join(h.dir, id+".png")); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
