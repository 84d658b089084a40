package handler

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adam5096/api-server-postgresql/internal/storage"
)

// maxUploadBytes caps uploaded files at 5 MiB.
const maxUploadBytes = 5 * 1024 * 1024

// allowedMimes lists the content types the upload endpoint accepts.
var allowedMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// UploadHandler moves uploaded files into object storage. The storage
// capability is an interface so tests run without any S3 access.
type UploadHandler struct {
	Store storage.ObjectStorage
}

func NewUploadHandler(s storage.ObjectStorage) *UploadHandler { return &UploadHandler{Store: s} }

// Info handles GET /upload.
func (h *UploadHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "this is the upload page"})
}

// Upload handles PUT /upload. It expects a multipart form with a single
// `file` part, restricted to images up to 5 MiB. The stored object gets a
// fresh UUID name (keeping the client's extension) so uploads never collide
// or overwrite each other.
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no file selected"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "file too large"})
	}
	contentType := fh.Header.Get("Content-Type")
	if !allowedMimes[contentType] {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid file type"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "upload failed"})
	}
	defer src.Close()

	name := uuid.NewString()
	if ext := strings.TrimPrefix(path.Ext(fh.Filename), "."); ext != "" {
		name = name + "." + ext
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	url, err := h.Store.Put(ctx, name, contentType, src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "upload failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "upload successful",
		"fileUrl":  url,
		"fileName": name,
	})
}
