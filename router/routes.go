package router

import (
	"photos/controllers"
	"photos/middleware"
	"photos/web"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes configures the photo page, the upload form target and the
// health check. A nil rateLimiter leaves uploads unlimited.
func RegisterRoutes(r *gin.Engine, healthController *controllers.HealthController,
	photoController *controllers.PhotoController, rateLimiter *middleware.RateLimiter) {

	r.SetHTMLTemplate(web.Templates())

	r.GET("/healthz", healthController.HealthCheck)
	r.GET("/", photoController.ViewPhotos)

	upload := []gin.HandlerFunc{photoController.UploadPhotos}
	if rateLimiter != nil {
		upload = append([]gin.HandlerFunc{rateLimiter.Limit()}, upload...)
	}
	r.POST("/upload-photos", upload...)
}
