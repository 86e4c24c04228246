package schedule

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/models"
)

// ===============================
// Appointment Ledger
// ===============================

// CreateAppointment books date/slot for a client. The slot is consumed and
// the appointment appended in one step; a slot that is absent (never opened
// or already booked) rejects the request outright.
func CreateAppointment(
	t *models.Tenant,
	date string,
	slot string,
	clientName string,
	phone string,
	now time.Time,
) (*models.Appointment, error) {

	if !ValidDate(date) {
		return nil, httperr.ErrValidation("date must be YYYY-MM-DD")
	}
	if !ValidSlot(slot) {
		return nil, httperr.ErrValidation("time must be HH:MM")
	}
	if strings.TrimSpace(clientName) == "" {
		return nil, httperr.ErrValidation("client name is required")
	}

	if !ConsumeSlot(t, date, slot) {
		return nil, httperr.ErrSlotUnavailable(date, slot)
	}

	ap := models.Appointment{
		ID:         uuid.NewString(),
		Date:       date,
		Time:       slot,
		ClientName: strings.TrimSpace(clientName),
		Phone:      strings.TrimSpace(phone),
		Status:     string(InitialStatus()),
		CreatedAt:  now,
	}
	t.Appointments = append(t.Appointments, ap)

	return &t.Appointments[len(t.Appointments)-1], nil
}

func FindAppointment(t *models.Tenant, id string) (*models.Appointment, error) {
	for i := range t.Appointments {
		if t.Appointments[i].ID == id {
			return &t.Appointments[i], nil
		}
	}
	return nil, httperr.ErrNotFound("appointment", id)
}

// CancelAppointment removes the appointment from the ledger and releases
// its slot. A second cancel fails with not_found; callers that want
// idempotency tolerate that error.
func CancelAppointment(t *models.Tenant, id string) (models.Appointment, error) {
	for i := range t.Appointments {
		if t.Appointments[i].ID != id {
			continue
		}
		ap := t.Appointments[i]
		t.Appointments = append(t.Appointments[:i], t.Appointments[i+1:]...)
		if ap.Status != string(StatusCompleted) {
			ReleaseSlot(t, ap.Date, ap.Time)
		}
		return ap, nil
	}
	return models.Appointment{}, httperr.ErrNotFound("appointment", id)
}

type CompleteInput struct {
	ServiceID     string
	FinalPrice    float64 // 0 means use the service list price (minus discount)
	MaterialsUsed []models.MaterialUsed
}

// CompleteAppointment settles an appointment: stock is checked for every
// material before anything is decremented, then inventory, price, cost and
// profit land together. The slot stays consumed.
func CompleteAppointment(t *models.Tenant, id string, in CompleteInput) (*models.Appointment, error) {
	ap, err := FindAppointment(t, id)
	if err != nil {
		return nil, err
	}
	if err := CanComplete(Status(ap.Status)); err != nil {
		return nil, err
	}

	svc := findService(t, in.ServiceID)
	if svc == nil {
		return nil, httperr.ErrNotFound("service", in.ServiceID)
	}

	// All-or-nothing: totals are checked per item before anything mutates,
	// so a repeated itemId cannot slip past the stock check entry by entry.
	requested := make(map[string]int, len(in.MaterialsUsed))
	for _, m := range in.MaterialsUsed {
		if m.Quantity <= 0 {
			return nil, httperr.ErrValidation("material quantity must be positive")
		}
		if findInventoryItem(t, m.ItemID) == nil {
			return nil, httperr.ErrNotFound("inventory item", m.ItemID)
		}
		requested[m.ItemID] += m.Quantity
	}
	for itemID, qty := range requested {
		if findInventoryItem(t, itemID).Quantity < qty {
			return nil, httperr.ErrInsufficientStock(itemID)
		}
	}

	var totalCost float64
	for _, m := range in.MaterialsUsed {
		item := findInventoryItem(t, m.ItemID)
		item.Quantity -= m.Quantity
		totalCost += item.Cost * float64(m.Quantity)
	}

	finalPrice := in.FinalPrice
	if finalPrice <= 0 {
		finalPrice = svc.Price
		if ap.Discount > 0 {
			finalPrice = finalPrice * (1 - ap.Discount/100)
		}
	}

	ap.Status = string(StatusCompleted)
	ap.ServiceID = svc.ID
	ap.FinalPrice = finalPrice
	ap.TotalCost = totalCost
	ap.Profit = finalPrice - totalCost
	ap.MaterialsUsed = in.MaterialsUsed

	return ap, nil
}

// ===============================
// Notes / rename
// ===============================

// AddNote prepends, so notes read most-recent-first.
func AddNote(t *models.Tenant, id, text string) (*models.Appointment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, httperr.ErrValidation("note text is required")
	}
	ap, err := FindAppointment(t, id)
	if err != nil {
		return nil, err
	}
	ap.Notes = append([]string{text}, ap.Notes...)
	return ap, nil
}

func EditNote(t *models.Tenant, id string, index int, text string) (*models.Appointment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, httperr.ErrValidation("note text is required")
	}
	ap, err := FindAppointment(t, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(ap.Notes) {
		return nil, httperr.ErrValidation("note index out of range")
	}
	ap.Notes[index] = text
	return ap, nil
}

func RemoveNote(t *models.Tenant, id string, index int) (*models.Appointment, error) {
	ap, err := FindAppointment(t, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(ap.Notes) {
		return nil, httperr.ErrValidation("note index out of range")
	}
	ap.Notes = append(ap.Notes[:index], ap.Notes[index+1:]...)
	return ap, nil
}

func Rename(t *models.Tenant, id, newName string) (*models.Appointment, error) {
	if strings.TrimSpace(newName) == "" {
		return nil, httperr.ErrValidation("client name is required")
	}
	ap, err := FindAppointment(t, id)
	if err != nil {
		return nil, err
	}
	ap.ClientName = strings.TrimSpace(newName)
	return ap, nil
}

// ===============================
// Catalog lookups
// ===============================

func findService(t *models.Tenant, id string) *models.Service {
	for i := range t.Services {
		if t.Services[i].ID == id {
			return &t.Services[i]
		}
	}
	return nil
}

func findInventoryItem(t *models.Tenant, id string) *models.InventoryItem {
	for i := range t.Inventory {
		if t.Inventory[i].ID == id {
			return &t.Inventory[i]
		}
	}
	return nil
}
