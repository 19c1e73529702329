package upload

import (
	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/storage"
	"github.com/codewithsuzan/Momento/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadHandler hands out presigned upload URLs so image bytes go straight
// to storage instead of through the API. Backends without presigning fall
// back to the direct upload endpoint.
type UploadHandler struct {
	storage storage.Storage
}

func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{store}
}

// GenerateUploadURL returns a presigned PUT URL and the object key the
// client must reference when creating the post.
func (h *UploadHandler) GenerateUploadURL(c *gin.Context) {
	var requestData struct {
		Filename    string `json:"filename" binding:"required"`
		ContentType string `json:"content_type" binding:"required"`
	}

	if err := c.ShouldBindJSON(&requestData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid request data", err))
		return
	}

	if !allowedContentTypes[requestData.ContentType] {
		errors.HandleError(c, errors.New(errors.ErrValidation, "unsupported content type"))
		return
	}

	key := util.GenerateObjectKey("posts", requestData.Filename)

	uploadURL, err := h.storage.PresignUpload(key, requestData.ContentType)
	if err == storage.ErrPresignUnsupported {
		// the direct upload endpoint issues its own key on upload
		errors.HandleSuccess(c, gin.H{
			"direct_upload": true,
		}, "presigned uploads unavailable, use the direct upload endpoint")
		return
	}
	if err != nil {
		util.Logger.Error("failed to presign upload", zap.Error(err), zap.String("file_key", key))
		errors.HandleError(c, errors.Wrap(errors.ErrStorage, "failed to generate upload URL", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"upload_url": uploadURL,
		"file_key":   key,
	}, "")
}

// DirectUpload accepts the image body through the API. Fallback for
// storage backends that cannot presign.
func (h *UploadHandler) DirectUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "missing file", err))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedContentTypes[contentType] {
		errors.HandleError(c, errors.New(errors.ErrValidation, "unsupported content type"))
		return
	}

	// keys are always issued server-side; a client-chosen key could address
	// another user's stored object
	key := util.GenerateObjectKey("posts", file.Filename)

	if _, err := h.storage.UploadFile(file, key); err != nil {
		util.Logger.Error("direct upload failed", zap.Error(err), zap.String("file_key", key))
		errors.HandleError(c, errors.Wrap(errors.ErrStorage, "upload failed", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"file_key": key,
		"file_url": h.storage.FileURL(key),
	}, "uploaded")
}
