package schedule

import "github.com/lacquerlab/salon-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
)

// Cancellation is modeled as removal from the ledger, not a status; the
// slot goes back to the calendar and the audit log keeps the history.

func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrConflict("appointment is not scheduled")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
