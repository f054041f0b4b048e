package controllers

import (
	"log"
	"net/http"

	"photos/services/photo"
	"photos/utils"
	"photos/web"

	"github.com/gin-gonic/gin"
)

// photosField is the multipart field the upload form posts files under
const photosField = "photos"

// PhotoController serves the photo page and accepts uploads from its form
type PhotoController struct {
	photos *photo.Service
	logger *log.Logger
}

// NewPhotoController creates a new photo controller
func NewPhotoController(photos *photo.Service, logger *log.Logger) *PhotoController {
	if logger == nil {
		logger = utils.NewCustomLogger("PHOTO")
	}
	return &PhotoController{
		photos: photos,
		logger: logger,
	}
}

// ViewPhotos renders the upload form and a grid of signed image URLs. A
// failed listing still renders the page, with no images.
func (c *PhotoController) ViewPhotos(ctx *gin.Context) {
	photos, err := c.photos.ListPhotos(ctx.Request.Context())
	if err != nil {
		c.logger.Printf("Error listing photos: %v", err)
	}

	ctx.HTML(http.StatusOK, web.IndexTemplate, web.IndexPage{Photos: photos})
}

// UploadPhotos copies every file in the photos field to both backends and
// redirects back to the listing whatever the outcome.
func (c *PhotoController) UploadPhotos(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		c.logger.Printf("Error parsing upload form: %v", err)
		ctx.Redirect(http.StatusFound, "/")
		return
	}

	headers, ok := form.File[photosField]
	if !ok {
		ctx.Redirect(http.StatusFound, "/")
		return
	}

	summary := c.photos.UploadPhotos(ctx.Request.Context(), photo.FromFileHeaders(headers))
	for _, r := range summary.Results {
		if r.ObjectErr != nil || r.ShareErr != nil {
			c.logger.Printf("Upload of %s incomplete: object store error: %v, file share error: %v", r.Name, r.ObjectErr, r.ShareErr)
		}
	}

	ctx.Redirect(http.StatusFound, "/")
}
