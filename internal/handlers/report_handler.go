package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lacquerlab/salon-scheduler/internal/domain/schedule"
	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
)

type ReportHandler struct {
	tenants *repository.Tenants
}

func NewReportHandler(tenants *repository.Tenants) *ReportHandler {
	return &ReportHandler{tenants: tenants}
}

type ReportSummary struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalCost    float64 `json:"totalCost"`
	TotalProfit  float64 `json:"totalProfit"`

	Completed int `json:"completed"`
	Scheduled int `json:"scheduled"`
}

// Summary totals revenue, cost and profit over completed appointments, the
// numbers the admin dashboard shows.
func (h *ReportHandler) Summary(c *gin.Context) {
	t, err := h.tenants.View(c.Request.Context(), c.Param("instanceId"))
	if err != nil {
		httperr.From(c, err)
		return
	}

	var sum ReportSummary
	for _, ap := range t.Appointments {
		switch schedule.Status(ap.Status) {
		case schedule.StatusCompleted:
			sum.Completed++
			sum.TotalRevenue += ap.FinalPrice
			sum.TotalCost += ap.TotalCost
			sum.TotalProfit += ap.Profit
		case schedule.StatusScheduled:
			sum.Scheduled++
		}
	}

	c.JSON(http.StatusOK, sum)
}
