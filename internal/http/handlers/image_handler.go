// Image HTTP handlers.
//
// This file exposes the image blob surface: listing stored images, serving
// raw bytes with long-lived caching, and single or batch multipart upload.
// Stored names are unique; re-uploading a name replaces the blob.
package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peteoy/recipe-backend/internal/domain"
	"github.com/peteoy/recipe-backend/internal/utils"
)

// Clients may cache image bytes for a year; names are treated as immutable
// content addresses.
const imageCacheControl = "public, max-age=31536000"

// defaultImageListLimit caps an unqualified image listing.
const defaultImageListLimit = 100

// ImageView is the metadata projection for image listings. Raw bytes are
// never included.
type ImageView struct {
	Name        string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadDate  time.Time `json:"uploadDate"`
	ImageURL    string    `json:"imageUrl"`
}

// ListImages godoc
// @ID          listImages
// @Summary     List stored images
// @Description Returns image metadata, newest first. Blob bytes are not included.
// @Tags        Images
// @Produce     json
// @Param       limit  query  int  false  "Maximum number of images (default 100)"
// @Success     200  {object}  handlers.DataResponse
// @Router      /gridfs-images [get]
func (h *Handlers) ListImages(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), defaultImageListLimit)
	imgs, err := h.images.List(c.Request.Context(), limit)
	if err != nil {
		failService(c, err)
		return
	}

	views := make([]ImageView, 0, len(imgs))
	for _, img := range imgs {
		views = append(views, ImageView{
			Name:        img.Name,
			ContentType: img.ContentType,
			Size:        img.Size,
			UploadDate:  img.CreatedAt,
			ImageURL:    h.basePath + "/gridfs-images/" + img.Name,
		})
	}
	ok(c, http.StatusOK, "OK", views)
}

// ServeImage godoc
// @ID          serveImage
// @Summary     Serve an image
// @Description Streams the stored bytes with the recorded content type and a one-year cache header. A name without an extension falls back to the ".jpg" variant.
// @Tags        Images
// @Produce     image/jpeg
// @Param       filename  path  string  true  "Stored image name"
// @Success     200  {file}  binary
// @Failure     404  {object}  handlers.ErrorResponse  "Image not found"
// @Router      /gridfs-images/{filename} [get]
func (h *Handlers) ServeImage(c *gin.Context) {
	img, err := h.images.Get(c.Request.Context(), c.Param("filename"))
	if err != nil {
		failService(c, err)
		return
	}

	ct := img.ContentType
	if ct == "" {
		ct = "image/jpeg"
	}
	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, ct, img.Data)
}

// UploadImage godoc
// @ID          uploadImage
// @Summary     Upload an image
// @Description Stores the multipart "image" part under its filename, replacing any previous blob of that name.
// @Tags        Images
// @Accept      multipart/form-data
// @Produce     json
// @Param       image  formData  file  true  "Image file (jpeg, png, or webp)"
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing part, unsupported type, or oversize payload"
// @Router      /gridfs-images/upload [post]
func (h *Handlers) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "No image file provided")
		return
	}

	img, err := h.storePart(c, fh)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, "Image uploaded successfully", gin.H{
		"filename": img.Name,
		"imageUrl": h.basePath + "/gridfs-images/" + img.Name,
	})
}

// batchLimit caps one batch upload request.
const batchLimit = 100

// UploadImages godoc
// @ID          uploadImages
// @Summary     Upload images in batch
// @Description Stores every multipart "images" part. Individual failures are reported per file without aborting the batch.
// @Tags        Images
// @Accept      multipart/form-data
// @Produce     json
// @Param       images  formData  file  true  "Image files (at most 100)"
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing parts or too many files"
// @Router      /gridfs-images/batch-upload [post]
func (h *Handlers) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "No image files provided")
		return
	}
	parts := form.File["images"]
	if len(parts) > batchLimit {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Too many files in one batch")
		return
	}

	uploaded := make([]string, 0, len(parts))
	failed := make([]gin.H, 0)
	for _, fh := range parts {
		img, err := h.storePart(c, fh)
		if err != nil {
			failed = append(failed, gin.H{"filename": fh.Filename, "error": err.Error()})
			continue
		}
		uploaded = append(uploaded, img.Name)
	}

	ok(c, http.StatusCreated, "Batch upload finished", gin.H{
		"uploaded": uploaded,
		"failed":   failed,
	})
}

// storePart reads one multipart file and hands it to the image service.
func (h *Handlers) storePart(c *gin.Context, fh *multipart.FileHeader) (*domain.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return h.images.Put(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
}
