package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lacquerlab/salon-scheduler/internal/audit"
	"github.com/lacquerlab/salon-scheduler/internal/domain/schedule"
	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/images"
	"github.com/lacquerlab/salon-scheduler/internal/middleware"
	"github.com/lacquerlab/salon-scheduler/internal/models"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
	"github.com/lacquerlab/salon-scheduler/internal/storage"
)

const (
	maxUploadBytes = 10 << 20 // 10 MiB
	maxImageEdge   = 1600
)

// AttachmentHandler stores appointment photos: uploads are converted to
// webp, put to S3, and the object key becomes the appointment's opaque
// image reference.
type AttachmentHandler struct {
	tenants  *repository.Tenants
	hub      *notify.Hub
	audit    *audit.Dispatcher
	uploader *storage.S3Uploader
}

func NewAttachmentHandler(
	tenants *repository.Tenants,
	hub *notify.Hub,
	auditor *audit.Dispatcher,
	uploader *storage.S3Uploader,
) *AttachmentHandler {
	return &AttachmentHandler{
		tenants:  tenants,
		hub:      hub,
		audit:    auditor,
		uploader: uploader,
	}
}

func (h *AttachmentHandler) Upload(c *gin.Context) {
	if h.uploader == nil {
		httperr.Write(c, http.StatusNotImplemented, "attachments_disabled", "image storage is not configured")
		return
	}

	instanceID := c.Param("instanceId")
	appointmentID := c.Param("id")

	file, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "an image file field is required")
		return
	}
	if file.Size > maxUploadBytes {
		httperr.BadRequest(c, httperr.CodeValidation, "image exceeds the 10 MiB limit")
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_upload", "could not read upload")
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		httperr.Internal(c, "failed_to_read_upload", "could not read upload")
		return
	}

	converted, err := images.ToWebP(raw, maxImageEdge)
	if err != nil {
		httperr.From(c, err)
		return
	}

	key := fmt.Sprintf("attachments/%s/%s.webp", instanceID, appointmentID)
	if err := h.uploader.Upload(c.Request.Context(), key, converted, "image/webp"); err != nil {
		httperr.Internal(c, "failed_to_store_image", "could not store image")
		return
	}

	// The appointment must exist; the upload above is harmlessly orphaned
	// if it does not.
	var updated models.Appointment
	_, err = h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		ap, err := schedule.FindAppointment(t, appointmentID)
		if err != nil {
			return err
		}
		ap.Image = key
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
		Action:   "appointment_image_uploaded",
		Entity:   "appointment",
		EntityID: appointmentID,
		Metadata: gin.H{"key": key},
	})

	c.JSON(http.StatusOK, updated)
}
