package payslip

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	templates := r.Group("/payslip-templates")
	{
		templates.GET("", handler.ListTemplates)
		templates.POST("", handler.CreateTemplate)
	}

	payslips := r.Group("/payslips")
	{
		payslips.GET("/:id", handler.GetByID)
		payslips.GET("/employee/:employeeId", handler.ListForEmployee)
		payslips.POST("", handler.Generate)
		payslips.POST("/generate-run", handler.GenerateForRun)
		payslips.POST("/:id/regenerate", handler.Regenerate)
		payslips.POST("/:id/viewed", handler.MarkViewed)
		payslips.POST("/:id/downloaded", handler.MarkDownloaded)
	}
}
