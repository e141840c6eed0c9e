// Upload HTTP handler.
//
// POST /api/upload accepts a multipart "file" field, validates type and size,
// stores the object under a per-user key, and returns its public URL. Only
// images are accepted; the content type is sniffed from the payload, never
// trusted from the request.
package handlers

import (
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// allowedImageTypes maps sniffed content types to the stored file extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadResult is the payload of a successful upload.
type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Upload godoc
// @ID          upload
// @Summary     Upload an image
// @Description Accepts a multipart "file" field (jpeg/png/webp/gif, max 5 MiB) and returns the public URL.
// @Tags        Upload
// @Accept      multipart/form-data
// @Produce     json
// @Param       file  formData  file  true  "Image file"
// @Success     201  {object}  handlers.Response{data=handlers.UploadResult}
// @Failure     400  {object}  handlers.Response  "Missing, oversized, or non-image file"
// @Failure     503  {object}  handlers.Response  "Object storage not configured"
// @Router      /upload [post]
func (h *Handlers) Upload(c *gin.Context) {
	if h.store == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "object storage not configured")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "multipart 'file' field is required")
		return
	}
	if fh.Size <= 0 || fh.Size > h.maxUploadSize {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file must be between 1 byte and 5 MiB")
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, "could not read upload")
		return
	}
	defer f.Close()

	// Sniff the real content type from the first 512 bytes.
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "empty upload")
		return
	}
	contentType := http.DetectContentType(head[:n])
	ext, allowed := allowedImageTypes[contentType]
	if !allowed {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "only jpeg, png, webp, and gif images are accepted")
		return
	}
	if _, err := f.Seek(0, 0); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, "could not read upload")
		return
	}

	key := path.Join(userID(c), time.Now().UTC().Format("2006/01"), uuid.NewString()+ext)
	url, err := h.store.Put(c.Request.Context(), key, f, fh.Size, contentType)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, "could not store upload")
		return
	}

	ok(c, http.StatusCreated, "file uploaded", UploadResult{
		URL:         url,
		Key:         key,
		ContentType: contentType,
		Size:        fh.Size,
	})
}
