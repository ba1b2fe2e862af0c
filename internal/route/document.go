package route

import (
	"github.com/SeakMengs/AutoActa/internal/controller"
	"github.com/SeakMengs/AutoActa/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Documents(r *gin.RouterGroup, dc *controller.DocumentController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/documents")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("/:documentId", dc.GetDocument)
		v1.DELETE("/:documentId", dc.DeleteDraft)
		v1.GET("/:documentId/verify", dc.VerifyDocument)
		v1.POST("/:documentId/send", dc.SendForSignature)
		v1.POST("/:documentId/open", dc.OpenForSignature)
		v1.POST("/:documentId/upload", dc.UploadSigned)
		v1.POST("/:documentId/sign", dc.Sign)
		v1.POST("/:documentId/admin-sign", dc.AdminSign)
		v1.POST("/:documentId/reset", dc.ResetToDraft)
	}
}
