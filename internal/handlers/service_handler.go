package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lacquerlab/salon-scheduler/internal/audit"
	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/middleware"
	"github.com/lacquerlab/salon-scheduler/internal/models"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
)

type ServiceHandler struct {
	tenants *repository.Tenants
	hub     *notify.Hub
	audit   *audit.Dispatcher
}

func NewServiceHandler(
	tenants *repository.Tenants,
	hub *notify.Hub,
	auditor *audit.Dispatcher,
) *ServiceHandler {
	return &ServiceHandler{tenants: tenants, hub: hub, audit: auditor}
}

type CreateServiceRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"required"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	t, err := h.tenants.View(c.Request.Context(), c.Param("instanceId"))
	if err != nil {
		httperr.From(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	instanceID := c.Param("instanceId")

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "name and price are required")
		return
	}
	if req.Price < 0 {
		httperr.BadRequest(c, httperr.CodeValidation, "price must not be negative")
		return
	}

	svc := models.Service{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(req.Name),
		Price: req.Price,
	}

	_, err := h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		t.Services = append(t.Services, svc)
		return nil
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	h.hub.Publish(notify.Event{Type: notify.EventServices, Tenant: instanceID})
	h.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    c.GetString(middleware.ContextUsername),
		Action:   "service_created",
		Entity:   "service",
		EntityID: svc.ID,
	})

	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	instanceID := c.Param("instanceId")
	serviceID := c.Param("id")

	_, err := h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		for i := range t.Services {
			if t.Services[i].ID == serviceID {
				t.Services = append(t.Services[:i], t.Services[i+1:]...)
				return nil
			}
		}
		return httperr.ErrNotFound("service", serviceID)
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	h.hub.Publish(notify.Event{Type: notify.EventServices, Tenant: instanceID})
	h.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    c.GetString(middleware.ContextUsername),
		Action:   "service_deleted",
		Entity:   "service",
		EntityID: serviceID,
	})

	c.JSON(http.StatusOK, gin.H{"id": serviceID})
}
