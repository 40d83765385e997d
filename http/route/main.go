package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lumenfilms/lumen-media-service/http/controller"
	middlewares "github.com/lumenfilms/lumen-media-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api/v1/media")
	{
		// Playback resolution is public; the site player consumes it.
		apiRoutes.GET("/:id/chunks", ctrl.GetPlayableChunks)
		apiRoutes.GET("/:id/chunks/:index", ctrl.StreamChunk)
		apiRoutes.GET("/:id/manifest", ctrl.GetManifest)

		adminRoutes := apiRoutes.Group("")
		{
			adminRoutes.Use(middles.AuthMiddleware)

			adminRoutes.POST("/upload", ctrl.UploadMedia)
			adminRoutes.GET("/upload/:upload_id/progress", ctrl.GetUploadProgress)
			adminRoutes.DELETE("/:id", ctrl.DeleteMedia)
		}
	}
	return r
}
