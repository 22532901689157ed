package taxconfig

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	configs := r.Group("/tax-configurations")
	{
		configs.GET("", handler.GetAll)
		configs.GET("/resolve/:taxType", handler.Resolve)
		configs.POST("", handler.Create)
		configs.POST("/:id/activate", handler.Activate)
		configs.POST("/:id/deactivate", handler.Deactivate)
	}
}
