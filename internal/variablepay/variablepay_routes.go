package variablepay

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	overtime := r.Group("/overtime")
	{
		overtime.POST("", handler.SubmitOvertime)
		overtime.POST("/:id/approve", handler.ApproveOvertime)
	}

	bonuses := r.Group("/bonuses")
	{
		bonuses.POST("", handler.SubmitBonus)
	}

	commissions := r.Group("/commissions")
	{
		commissions.POST("", handler.SubmitCommission)
	}

	deductions := r.Group("/deductions")
	{
		deductions.POST("", handler.SubmitDeduction)
		deductions.POST("/:id/cancel", handler.CancelDeduction)
	}
}
