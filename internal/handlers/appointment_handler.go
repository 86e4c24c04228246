package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lacquerlab/salon-scheduler/internal/audit"
	"github.com/lacquerlab/salon-scheduler/internal/domain/schedule"
	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/middleware"
	"github.com/lacquerlab/salon-scheduler/internal/models"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
	"github.com/lacquerlab/salon-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	tenants    *repository.Tenants
	hub        *notify.Hub
	audit      *audit.Dispatcher
	createUC   *booking.CreateBooking
	cancelUC   *booking.CancelBooking
	completeUC *booking.CompleteBooking
}

func NewAppointmentHandler(
	tenants *repository.Tenants,
	hub *notify.Hub,
	auditor *audit.Dispatcher,
	createUC *booking.CreateBooking,
	cancelUC *booking.CancelBooking,
	completeUC *booking.CompleteBooking,
) *AppointmentHandler {
	return &AppointmentHandler{
		tenants:    tenants,
		hub:        hub,
		audit:      auditor,
		createUC:   createUC,
		cancelUC:   cancelUC,
		completeUC: completeUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	ClientName string `json:"clientName" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	CouponCode string `json:"couponCode"`
}

type CompleteAppointmentRequest struct {
	ServiceID     string                `json:"serviceId" binding:"required"`
	FinalPrice    float64               `json:"finalPrice"`
	MaterialsUsed []models.MaterialUsed `json:"materialsUsed"`
}

type RenameAppointmentRequest struct {
	ClientName string `json:"clientName" binding:"required"`
}

type NoteRequest struct {
	Text string `json:"text" binding:"required"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	t, err := h.tenants.View(c.Request.Context(), c.Param("instanceId"))
	if err != nil {
		httperr.From(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Appointments)
}

// Create is the public booking endpoint. A taken or never-opened slot is a
// hard reject; the response carries the appointment plus the auto-issued
// reward coupon when one was granted.
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "date, time, clientName and phone are required")
		return
	}

	ap, reward, err := h.createUC.Execute(c.Request.Context(), booking.CreateBookingInput{
		InstanceID: c.Param("instanceId"),
		Date:       req.Date,
		Time:       req.Time,
		ClientName: req.ClientName,
		Phone:      req.Phone,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	resp := gin.H{"appointment": ap}
	if reward != nil {
		resp["reward"] = reward
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	ap, err := h.cancelUC.Execute(
		c.Request.Context(),
		c.Param("instanceId"),
		c.Param("id"),
		c.GetString(middleware.ContextUsername),
	)
	if err != nil {
		httperr.From(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	var req CompleteAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "serviceId is required")
		return
	}

	ap, err := h.completeUC.Execute(
		c.Request.Context(),
		c.Param("instanceId"),
		c.Param("id"),
		schedule.CompleteInput{
			ServiceID:     req.ServiceID,
			FinalPrice:    req.FinalPrice,
			MaterialsUsed: req.MaterialsUsed,
		},
		c.GetString(middleware.ContextUsername),
	)
	if err != nil {
		httperr.From(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Rename(c *gin.Context) {
	var req RenameAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "clientName is required")
		return
	}

	h.mutate(c, "appointment_renamed", func(t *models.Tenant) (*models.Appointment, error) {
		return schedule.Rename(t, c.Param("id"), req.ClientName)
	})
}

func (h *AppointmentHandler) AddNote(c *gin.Context) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "text is required")
		return
	}

	h.mutate(c, "note_added", func(t *models.Tenant) (*models.Appointment, error) {
		return schedule.AddNote(t, c.Param("id"), req.Text)
	})
}

func (h *AppointmentHandler) EditNote(c *gin.Context) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "text is required")
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "note index must be a number")
		return
	}

	h.mutate(c, "note_edited", func(t *models.Tenant) (*models.Appointment, error) {
		return schedule.EditNote(t, c.Param("id"), index, req.Text)
	})
}

func (h *AppointmentHandler) RemoveNote(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "note index must be a number")
		return
	}

	h.mutate(c, "note_removed", func(t *models.Tenant) (*models.Appointment, error) {
		return schedule.RemoveNote(t, c.Param("id"), index)
	})
}

// mutate runs a small appointment edit through the serialized tenant
// mutation path and handles the shared respond/notify/audit tail.
func (h *AppointmentHandler) mutate(
	c *gin.Context,
	action string,
	fn func(*models.Tenant) (*models.Appointment, error),
) {
	instanceID := c.Param("instanceId")

	var updated models.Appointment
	_, err := h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		ap, err := fn(t)
		if err != nil {
			return err
		}
		updated = *ap
		return nil
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	h.hub.Publish(notify.Event{Type: notify.EventAppointments, Tenant: instanceID})
	h.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    c.GetString(middleware.ContextUsername),
		Action:   action,
		Entity:   "appointment",
		EntityID: updated.ID,
	})

	c.JSON(http.StatusOK, updated)
}
