package handlers

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"paradise-vista/internal/logger"
	"paradise-vista/internal/storage"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	store   storage.Storage
	buckets map[string]bool
	maxSize int64
}

func NewUploadHandler(store storage.Storage, buckets []string, maxSize int64) *UploadHandler {
	allowed := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		allowed[b] = true
	}
	return &UploadHandler{store: store, buckets: allowed, maxSize: maxSize}
}

type UploadResponse struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

// Upload stores an image in a bucket
// @Summary Upload an image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param bucket path string true "Bucket (gallery, rooms, products)"
// @Param file formData file true "Image file"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Router /api/admin/uploads/{bucket} [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	bucket := c.Param("bucket")
	if !h.buckets[bucket] {
		fail(c, http.StatusBadRequest, "Unknown bucket")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "File is required")
		return
	}
	if h.maxSize > 0 && fileHeader.Size > h.maxSize {
		fail(c, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "Failed to read file")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		fail(c, http.StatusBadRequest, "Only image files are accepted")
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}

	ctx := c.Request.Context()
	objectPath := storage.ObjectPath(bucket, ext, time.Now().UTC())
	if err := h.store.Save(ctx, objectPath, io.MultiReader(bytes.NewReader(head), file), contentType); err != nil {
		logger.FromContext(ctx).Error("failed to store upload", "path", objectPath, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to store file")
		return
	}

	url, err := h.store.GetURL(ctx, objectPath)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to build file URL")
		return
	}

	logger.FromContext(ctx).Info("file uploaded", "path", objectPath, "size", fileHeader.Size)
	c.JSON(http.StatusCreated, UploadResponse{Bucket: bucket, Path: objectPath, URL: url})
}

// DeleteUpload removes a stored object
// @Summary Delete an uploaded file
// @Tags admin
// @Param bucket path string true "Bucket"
// @Param path path string true "Object path inside the bucket"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/uploads/{bucket}/{path} [delete]
func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	bucket := c.Param("bucket")
	if !h.buckets[bucket] {
		fail(c, http.StatusBadRequest, "Unknown bucket")
		return
	}

	objectPath, err := storage.CleanPath(bucket + "/" + strings.TrimPrefix(c.Param("path"), "/"))
	if err != nil || !strings.HasPrefix(objectPath, bucket+"/") {
		fail(c, http.StatusBadRequest, "Invalid path")
		return
	}

	if err := h.store.Delete(c.Request.Context(), objectPath); err != nil {
		logger.FromContext(c.Request.Context()).Error("failed to delete upload", "path", objectPath, "error", err)
		fail(c, http.StatusInternalServerError, "Failed to delete file")
		return
	}
	c.Status(http.StatusNoContent)
}
