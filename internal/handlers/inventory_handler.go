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

type InventoryHandler struct {
	tenants *repository.Tenants
	hub     *notify.Hub
	audit   *audit.Dispatcher
}

func NewInventoryHandler(
	tenants *repository.Tenants,
	hub *notify.Hub,
	auditor *audit.Dispatcher,
) *InventoryHandler {
	return &InventoryHandler{tenants: tenants, hub: hub, audit: auditor}
}

type CreateInventoryItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Cost     float64 `json:"cost"`
	Quantity int     `json:"quantity"`
}

type AdjustInventoryRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

func (h *InventoryHandler) List(c *gin.Context) {
	t, err := h.tenants.View(c.Request.Context(), c.Param("instanceId"))
	if err != nil {
		httperr.From(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Inventory)
}

func (h *InventoryHandler) Create(c *gin.Context) {
	instanceID := c.Param("instanceId")

	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "name is required")
		return
	}
	if req.Cost < 0 || req.Quantity < 0 {
		httperr.BadRequest(c, httperr.CodeValidation, "cost and quantity must not be negative")
		return
	}

	item := models.InventoryItem{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(req.Name),
		Cost:     req.Cost,
		Quantity: req.Quantity,
	}

	_, err := h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		t.Inventory = append(t.Inventory, item)
		return nil
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	h.hub.Publish(notify.Event{Type: notify.EventInventory, Tenant: instanceID})
	h.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    c.GetString(middleware.ContextUsername),
		Action:   "inventory_item_created",
		Entity:   "inventory",
		EntityID: item.ID,
	})

	c.JSON(http.StatusCreated, item)
}

// Adjust sets an item's quantity outright, the restock/correction path.
// Consumption during completion goes through the settlement instead.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	instanceID := c.Param("instanceId")
	itemID := c.Param("id")

	var req AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "quantity of 0 or more is required")
		return
	}

	var updated models.InventoryItem
	_, err := h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		for i := range t.Inventory {
			if t.Inventory[i].ID == itemID {
				t.Inventory[i].Quantity = req.Quantity
				updated = t.Inventory[i]
				return nil
			}
		}
		return httperr.ErrNotFound("inventory item", itemID)
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	h.hub.Publish(notify.Event{Type: notify.EventInventory, Tenant: instanceID})
	h.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    c.GetString(middleware.ContextUsername),
		Action:   "inventory_adjusted",
		Entity:   "inventory",
		EntityID: itemID,
		Metadata: gin.H{"quantity": req.Quantity},
	})

	c.JSON(http.StatusOK, updated)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	instanceID := c.Param("instanceId")
	itemID := c.Param("id")

	_, err := h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		for i := range t.Inventory {
			if t.Inventory[i].ID == itemID {
				t.Inventory = append(t.Inventory[:i], t.Inventory[i+1:]...)
				return nil
			}
		}
		return httperr.ErrNotFound("inventory item", itemID)
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	h.hub.Publish(notify.Event{Type: notify.EventInventory, Tenant: instanceID})
	h.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    c.GetString(middleware.ContextUsername),
		Action:   "inventory_item_deleted",
		Entity:   "inventory",
		EntityID: itemID,
	})

	c.JSON(http.StatusOK, gin.H{"id": itemID})
}
