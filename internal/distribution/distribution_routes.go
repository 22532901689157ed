package distribution

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	distributions := r.Group("/distributions")
	{
		distributions.GET("/:id", handler.GetByID)
		distributions.GET("/run/:runId", handler.ListForRun)
		distributions.POST("", handler.Distribute)
	}
}
