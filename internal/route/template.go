package route

import (
	"github.com/SeakMengs/AutoActa/internal/controller"
	"github.com/SeakMengs/AutoActa/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Templates(r *gin.RouterGroup, tc *controller.TemplateController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/templates")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("", tc.ListTemplates)
	}
}
