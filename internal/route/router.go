package route

import (
	"github.com/SeakMengs/AutoActa/internal/controller"
	"github.com/SeakMengs/AutoActa/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter mounts every route under /api with CORS and rate limiting in front.
func NewRouter(c *controller.Controller, m *middleware.Middleware) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Dossier-Folios"}
	r.Use(cors.New(corsConfig))
	r.Use(m.RateLimiterMiddleware)

	r.GET("/", c.Index.Index)

	rApi := r.Group("/api")

	V1_Templates(rApi, c.Template, m)
	V1_Records(rApi, c.Record, m)
	V1_Documents(rApi, c.Document, m)

	return r
}
