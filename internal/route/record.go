package route

import (
	"github.com/SeakMengs/AutoActa/internal/controller"
	"github.com/SeakMengs/AutoActa/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Records(r *gin.RouterGroup, rc *controller.RecordController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/records")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("/:recordId/documents", rc.ListDocuments)
		v1.POST("/:recordId/documents", rc.ComposeDocument)
		v1.GET("/:recordId/placeholders", rc.Placeholders)
		v1.GET("/:recordId/dossier", rc.Dossier)
		v1.GET("/:recordId/logs", rc.ListDocumentLogs)
	}
}
