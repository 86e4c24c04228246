package schedule

import (
	"sort"
	"time"

	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/models"
)

const (
	DateLayout = "2006-01-02"
	SlotLayout = "15:04"
)

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func ValidSlot(s string) bool {
	_, err := time.Parse(SlotLayout, s)
	return err == nil
}

// AvailableDates returns the dates whose slot set is non-empty, ascending.
func AvailableDates(t *models.Tenant) []string {
	dates := make([]string, 0, len(t.Availability))
	for date, day := range t.Availability {
		if len(day.Slots) > 0 {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}

// Slots returns the still-bookable times for a date, empty if the date is
// absent from the calendar.
func Slots(t *models.Tenant, date string) []string {
	day, ok := t.Availability[date]
	if !ok {
		return []string{}
	}
	out := make([]string, len(day.Slots))
	copy(out, day.Slots)
	return out
}

// SetSlots replaces the slot set for a date wholesale. Duplicates collapse;
// the stored order is chronological (zero-padded HH:MM sorts that way).
func SetSlots(t *models.Tenant, date string, slots []string) error {
	if !ValidDate(date) {
		return httperr.ErrValidation("date must be YYYY-MM-DD")
	}

	seen := make(map[string]bool, len(slots))
	clean := make([]string, 0, len(slots))
	for _, s := range slots {
		if !ValidSlot(s) {
			return httperr.ErrValidation("slot must be HH:MM")
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		clean = append(clean, s)
	}
	sort.Strings(clean)

	if t.Availability == nil {
		t.Availability = make(map[string]models.DayAvailability)
	}
	t.Availability[date] = models.DayAvailability{Slots: clean}
	return nil
}

// ConsumeSlot removes slot from the date's set and reports whether it was
// present. Callers create the appointment in the same tenant mutation, so
// the check and the removal cannot interleave with another booking.
func ConsumeSlot(t *models.Tenant, date, slot string) bool {
	day, ok := t.Availability[date]
	if !ok {
		return false
	}
	for i, s := range day.Slots {
		if s == slot {
			day.Slots = append(day.Slots[:i], day.Slots[i+1:]...)
			t.Availability[date] = day
			return true
		}
	}
	return false
}

// ReleaseSlot re-adds slot to the date's set. Idempotent: re-adding a
// present slot is a no-op.
func ReleaseSlot(t *models.Tenant, date, slot string) {
	if t.Availability == nil {
		t.Availability = make(map[string]models.DayAvailability)
	}
	day := t.Availability[date]
	for _, s := range day.Slots {
		if s == slot {
			return
		}
	}
	day.Slots = append(day.Slots, slot)
	sort.Strings(day.Slots)
	t.Availability[date] = day
}
