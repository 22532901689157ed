package payrollrun

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	runs := r.Group("/payroll-runs")
	{
		runs.GET("", handler.GetAll)
		runs.GET("/:id", handler.GetByID)
		runs.POST("", handler.Create)
		runs.POST("/preview", handler.Preview)
		runs.POST("/:id/process", handler.Process)
		runs.POST("/:id/approve", handler.Approve)
		runs.POST("/:id/mark-processed", handler.MarkProcessed)
		runs.POST("/:id/complete", handler.Complete)
	}

	entries := r.Group("/payroll-entries")
	{
		entries.GET("/:entryId", handler.GetEntry)
		entries.POST("/:entryId/corrections", handler.Correct)
	}
}
