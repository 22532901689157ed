package employee

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	{
		employees.GET("", handler.GetAll)
		employees.GET("/:id", handler.GetById)
		employees.POST("", middleware.RateLimitByIP(1, 5), handler.Create)
		employees.PUT("/:id", handler.Update)
		employees.POST("/:id/deactivate", handler.Deactivate)
	}
}
