package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lacquerlab/salon-scheduler/internal/audit"
	"github.com/lacquerlab/salon-scheduler/internal/domain/schedule"
	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/middleware"
	"github.com/lacquerlab/salon-scheduler/internal/models"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
)

type CouponHandler struct {
	tenants *repository.Tenants
	hub     *notify.Hub
	audit   *audit.Dispatcher
}

func NewCouponHandler(
	tenants *repository.Tenants,
	hub *notify.Hub,
	auditor *audit.Dispatcher,
) *CouponHandler {
	return &CouponHandler{tenants: tenants, hub: hub, audit: auditor}
}

type IssueCouponRequest struct {
	Code      string  `json:"code" binding:"required"`
	Discount  float64 `json:"discount" binding:"required"`
	ClientID  string  `json:"clientId"`
	ExpiresAt string  `json:"expiresAt"` // RFC 3339, optional
}

type RedeemCouponRequest struct {
	Code          string `json:"code" binding:"required"`
	AppointmentID string `json:"appointmentId"`
}

func (h *CouponHandler) List(c *gin.Context) {
	t, err := h.tenants.View(c.Request.Context(), c.Param("instanceId"))
	if err != nil {
		httperr.From(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Coupons)
}

func (h *CouponHandler) Issue(c *gin.Context) {
	instanceID := c.Param("instanceId")

	var req IssueCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "code and discount are required")
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		ts, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeValidation, "expiresAt must be RFC 3339")
			return
		}
		expiresAt = &ts
	}

	var issued models.Coupon
	_, err := h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		cp, err := schedule.IssueCoupon(t, req.Code, req.Discount, req.ClientID, expiresAt, time.Now().UTC())
		if err != nil {
			return err
		}
		issued = *cp
		return nil
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	h.hub.Publish(notify.Event{Type: notify.EventCoupons, Tenant: instanceID})
	h.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    c.GetString(middleware.ContextUsername),
		Action:   "coupon_issued",
		Entity:   "coupon",
		EntityID: issued.ID,
	})

	c.JSON(http.StatusCreated, issued)
}

func (h *CouponHandler) Delete(c *gin.Context) {
	instanceID := c.Param("instanceId")

	var removed models.Coupon
	_, err := h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		cp, err := schedule.RemoveCoupon(t, c.Param("id"))
		if err != nil {
			return err
		}
		removed = cp
		return nil
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	h.hub.Publish(notify.Event{Type: notify.EventCoupons, Tenant: instanceID})
	h.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    c.GetString(middleware.ContextUsername),
		Action:   "coupon_deleted",
		Entity:   "coupon",
		EntityID: removed.ID,
	})

	c.JSON(http.StatusOK, removed)
}

// Validate is the public pre-check the booking form uses. The three failure
// reasons stay distinct so the form can say which one happened.
func (h *CouponHandler) Validate(c *gin.Context) {
	t, err := h.tenants.View(c.Request.Context(), c.Param("instanceId"))
	if err != nil {
		httperr.From(c, err)
		return
	}

	cp, err := schedule.ValidateCoupon(t, c.Param("code"), time.Now().UTC())
	if err != nil {
		httperr.From(c, err)
		return
	}
	c.JSON(http.StatusOK, cp)
}

// Redeem marks the coupon used and applies its discount to the given
// appointment, as one tenant mutation. Two concurrent redemptions of one
// code cannot both pass.
func (h *CouponHandler) Redeem(c *gin.Context) {
	instanceID := c.Param("instanceId")

	var req RedeemCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "code is required")
		return
	}

	var redeemed models.Coupon
	_, err := h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		cp, err := schedule.RedeemCoupon(t, req.Code, req.AppointmentID, time.Now().UTC())
		if err != nil {
			return err
		}
		redeemed = *cp
		return nil
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	h.hub.Publish(notify.Event{Type: notify.EventCoupons, Tenant: instanceID})
	if req.AppointmentID != "" {
		h.hub.Publish(notify.Event{Type: notify.EventAppointments, Tenant: instanceID})
	}
	h.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    c.GetString(middleware.ContextUsername),
		Action:   "coupon_redeemed",
		Entity:   "coupon",
		EntityID: redeemed.ID,
		Metadata: gin.H{"appointmentId": req.AppointmentID},
	})

	c.JSON(http.StatusOK, redeemed)
}
