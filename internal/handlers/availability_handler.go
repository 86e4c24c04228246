package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lacquerlab/salon-scheduler/internal/audit"
	"github.com/lacquerlab/salon-scheduler/internal/domain/schedule"
	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/middleware"
	"github.com/lacquerlab/salon-scheduler/internal/models"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
)

type AvailabilityHandler struct {
	tenants *repository.Tenants
	hub     *notify.Hub
	audit   *audit.Dispatcher
}

func NewAvailabilityHandler(
	tenants *repository.Tenants,
	hub *notify.Hub,
	auditor *audit.Dispatcher,
) *AvailabilityHandler {
	return &AvailabilityHandler{tenants: tenants, hub: hub, audit: auditor}
}

type SetAvailabilityRequest struct {
	Date  string   `json:"date" binding:"required"`
	Slots []string `json:"slots"`
}

// GetAll returns the whole calendar, the map the admin UI renders.
func (h *AvailabilityHandler) GetAll(c *gin.Context) {
	t, err := h.tenants.View(c.Request.Context(), c.Param("instanceId"))
	if err != nil {
		httperr.From(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Availability)
}

// ListDates returns only the dates a client can still book, ascending.
// Optional from/to query params bound the range, inclusive.
func (h *AvailabilityHandler) ListDates(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if (from != "" && !schedule.ValidDate(from)) || (to != "" && !schedule.ValidDate(to)) {
		httperr.BadRequest(c, httperr.CodeValidation, "from and to must be YYYY-MM-DD")
		return
	}

	t, err := h.tenants.View(c.Request.Context(), c.Param("instanceId"))
	if err != nil {
		httperr.From(c, err)
		return
	}

	dates := schedule.AvailableDates(t)
	if from != "" || to != "" {
		// Already sorted; the format compares lexicographically.
		filtered := dates[:0]
		for _, d := range dates {
			if from != "" && d < from {
				continue
			}
			if to != "" && d > to {
				continue
			}
			filtered = append(filtered, d)
		}
		dates = filtered
	}

	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

// GetDay returns the open slots for one date, empty when the date is closed.
func (h *AvailabilityHandler) GetDay(c *gin.Context) {
	date := c.Param("date")
	if !schedule.ValidDate(date) {
		httperr.BadRequest(c, httperr.CodeValidation, "date must be YYYY-MM-DD")
		return
	}

	t, err := h.tenants.View(c.Request.Context(), c.Param("instanceId"))
	if err != nil {
		httperr.From(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": schedule.Slots(t, date)})
}

// Set replaces a date's slot set wholesale. An empty list closes the day.
func (h *AvailabilityHandler) Set(c *gin.Context) {
	instanceID := c.Param("instanceId")

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "date is required")
		return
	}

	t, err := h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		return schedule.SetSlots(t, req.Date, req.Slots)
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	h.hub.Publish(notify.Event{Type: notify.EventAvailability, Tenant: instanceID})
	h.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    c.GetString(middleware.ContextUsername),
		Action:   "availability_set",
		Entity:   "availability",
		EntityID: req.Date,
		Metadata: req.Slots,
	})

	c.JSON(http.StatusOK, gin.H{"date": req.Date, "slots": schedule.Slots(t, req.Date)})
}
