package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kelompok/venuehub/internal/storage"
)

// maxUploadBytes caps proof images at 2 MiB, matching what the mobile
// clients compress to.
const maxUploadBytes = 2 << 20

// UploadHandler receives proof images and stores them in the bucket
// matching their kind.  The returned URL is then referenced from
// booking, checkout or report submissions.
type UploadHandler struct {
	Store storage.Uploader
}

func NewUploadHandler(store storage.Uploader) *UploadHandler {
	return &UploadHandler{Store: store}
}

var uploadBuckets = map[string]string{
	"ktm":      storage.BucketKTM,
	"checkout": storage.BucketCheckoutProof,
	"report":   storage.BucketReportProof,
}

// Upload handles POST /v1/uploads/:kind with a multipart "file"
// field.  Only image payloads up to 2 MiB are accepted.
func (h *UploadHandler) Upload(c echo.Context) error {
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "file storage not configured"})
	}
	bucket, ok := uploadBuckets[strings.ToLower(c.Param("kind"))]
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown upload kind"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file field required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file exceeds 2MB limit"})
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only image uploads allowed"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	if len(data) > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file exceeds 2MB limit"})
	}

	url, err := h.Store.Upload(c.Request().Context(), bucket, fh.Filename, contentType, data)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "upload to storage failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
