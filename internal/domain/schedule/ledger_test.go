package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/models"
)

func bookedTenant(t *testing.T) (*models.Tenant, *models.Appointment) {
	t.Helper()

	tn := newTenant()
	require.NoError(t, SetSlots(tn, "2025-06-10", []string{"09:00", "10:00"}))

	ap, err := CreateAppointment(tn, "2025-06-10", "09:00", "Ana", "555-0100", time.Now())
	require.NoError(t, err)
	return tn, ap
}

func TestCreateAppointment(t *testing.T) {
	t.Run("books and consumes the slot", func(t *testing.T) {
		tn, ap := bookedTenant(t)

		assert.NotEmpty(t, ap.ID)
		assert.Equal(t, string(StatusScheduled), ap.Status)
		assert.Equal(t, []string{"10:00"}, Slots(tn, "2025-06-10"))
		assert.Len(t, tn.Appointments, 1)
	})

	t.Run("rejects a taken slot", func(t *testing.T) {
		tn, _ := bookedTenant(t)

		_, err := CreateAppointment(tn, "2025-06-10", "09:00", "Bia", "555-0101", time.Now())
		assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotUnavailable))
		assert.Len(t, tn.Appointments, 1)
	})

	t.Run("rejects a never-opened slot", func(t *testing.T) {
		tn := newTenant()
		_, err := CreateAppointment(tn, "2025-06-10", "09:00", "Ana", "555-0100", time.Now())
		assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotUnavailable))
	})

	t.Run("validates input", func(t *testing.T) {
		tn := newTenant()
		require.NoError(t, SetSlots(tn, "2025-06-10", []string{"09:00"}))

		cases := []struct {
			name       string
			date, slot string
			client     string
		}{
			{"bad date", "junk", "09:00", "Ana"},
			{"bad time", "2025-06-10", "9", "Ana"},
			{"blank client", "2025-06-10", "09:00", "   "},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := CreateAppointment(tn, tc.date, tc.slot, tc.client, "", time.Now())
				assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
			})
		}

		// Nothing was booked along the way.
		assert.Equal(t, []string{"09:00"}, Slots(tn, "2025-06-10"))
	})
}

func TestCancelAppointment(t *testing.T) {
	t.Run("removes and releases the slot", func(t *testing.T) {
		tn, ap := bookedTenant(t)

		_, err := CancelAppointment(tn, ap.ID)
		require.NoError(t, err)

		assert.Empty(t, tn.Appointments)
		assert.ElementsMatch(t, []string{"09:00", "10:00"}, Slots(tn, "2025-06-10"))
	})

	t.Run("second cancel is not_found", func(t *testing.T) {
		tn, ap := bookedTenant(t)

		_, err := CancelAppointment(tn, ap.ID)
		require.NoError(t, err)

		_, err = CancelAppointment(tn, ap.ID)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
	})

	t.Run("cancel after completion keeps the slot consumed", func(t *testing.T) {
		tn, ap := bookedTenant(t)
		tn.Services = []models.Service{{ID: "svc1", Name: "Manicure", Price: 50}}

		_, err := CompleteAppointment(tn, ap.ID, CompleteInput{ServiceID: "svc1"})
		require.NoError(t, err)

		_, err = CancelAppointment(tn, ap.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"10:00"}, Slots(tn, "2025-06-10"))
	})
}

func TestCompleteAppointment(t *testing.T) {
	settle := func(t *testing.T) (*models.Tenant, *models.Appointment) {
		t.Helper()
		tn, ap := bookedTenant(t)
		tn.Services = []models.Service{{ID: "svc1", Name: "Manicure", Price: 50}}
		tn.Inventory = []models.InventoryItem{
			{ID: "polish", Name: "Polish", Cost: 2, Quantity: 10},
			{ID: "glue", Name: "Glue", Cost: 1.5, Quantity: 3},
		}
		return tn, ap
	}

	t.Run("settles price, cost and profit", func(t *testing.T) {
		tn, ap := settle(t)

		got, err := CompleteAppointment(tn, ap.ID, CompleteInput{
			ServiceID: "svc1",
			MaterialsUsed: []models.MaterialUsed{
				{ItemID: "polish", Quantity: 2},
				{ItemID: "glue", Quantity: 1},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, string(StatusCompleted), got.Status)
		assert.Equal(t, 50.0, got.FinalPrice) // service list price
		assert.Equal(t, 5.5, got.TotalCost)   // 2*2 + 1*1.5
		assert.Equal(t, 44.5, got.Profit)

		assert.Equal(t, 8, tn.Inventory[0].Quantity)
		assert.Equal(t, 2, tn.Inventory[1].Quantity)

		// The slot stays consumed.
		assert.Equal(t, []string{"10:00"}, Slots(tn, "2025-06-10"))
	})

	t.Run("explicit final price wins", func(t *testing.T) {
		tn, ap := settle(t)

		got, err := CompleteAppointment(tn, ap.ID, CompleteInput{ServiceID: "svc1", FinalPrice: 42})
		require.NoError(t, err)
		assert.Equal(t, 42.0, got.FinalPrice)
		assert.Equal(t, 42.0, got.Profit)
	})

	t.Run("default price applies a redeemed discount", func(t *testing.T) {
		tn, ap := settle(t)
		ap.Discount = 10
		ap.CouponCode = "SAVE10"

		got, err := CompleteAppointment(tn, ap.ID, CompleteInput{ServiceID: "svc1"})
		require.NoError(t, err)
		assert.Equal(t, 45.0, got.FinalPrice)
	})

	t.Run("insufficient stock rejects in full", func(t *testing.T) {
		tn, ap := settle(t)

		_, err := CompleteAppointment(tn, ap.ID, CompleteInput{
			ServiceID: "svc1",
			MaterialsUsed: []models.MaterialUsed{
				{ItemID: "polish", Quantity: 2},
				{ItemID: "glue", Quantity: 5}, // only 3 in stock
			},
		})
		assert.True(t, httperr.IsBusiness(err, httperr.CodeInsufficientStock))

		// No partial decrement, no status change.
		assert.Equal(t, 10, tn.Inventory[0].Quantity)
		assert.Equal(t, 3, tn.Inventory[1].Quantity)
		assert.Equal(t, string(StatusScheduled), tn.Appointments[0].Status)
	})

	t.Run("repeated item entries are summed before the stock check", func(t *testing.T) {
		tn, ap := settle(t)

		// Each entry alone fits the 3 in stock; together they do not.
		_, err := CompleteAppointment(tn, ap.ID, CompleteInput{
			ServiceID: "svc1",
			MaterialsUsed: []models.MaterialUsed{
				{ItemID: "glue", Quantity: 2},
				{ItemID: "glue", Quantity: 2},
			},
		})
		assert.True(t, httperr.IsBusiness(err, httperr.CodeInsufficientStock))
		assert.Equal(t, 3, tn.Inventory[1].Quantity)
		assert.Equal(t, string(StatusScheduled), tn.Appointments[0].Status)
	})

	t.Run("repeated item entries whose total fits still settle", func(t *testing.T) {
		tn, ap := settle(t)

		got, err := CompleteAppointment(tn, ap.ID, CompleteInput{
			ServiceID: "svc1",
			MaterialsUsed: []models.MaterialUsed{
				{ItemID: "glue", Quantity: 1},
				{ItemID: "glue", Quantity: 2},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, tn.Inventory[1].Quantity)
		assert.Equal(t, 4.5, got.TotalCost)
	})

	t.Run("unknown service is not_found", func(t *testing.T) {
		tn, ap := settle(t)
		_, err := CompleteAppointment(tn, ap.ID, CompleteInput{ServiceID: "nope"})
		assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
	})

	t.Run("completing twice conflicts", func(t *testing.T) {
		tn, ap := settle(t)
		_, err := CompleteAppointment(tn, ap.ID, CompleteInput{ServiceID: "svc1"})
		require.NoError(t, err)

		_, err = CompleteAppointment(tn, ap.ID, CompleteInput{ServiceID: "svc1"})
		assert.True(t, httperr.IsBusiness(err, httperr.CodeConflict))
	})
}

func TestNotesAndRename(t *testing.T) {
	t.Run("notes prepend most-recent-first", func(t *testing.T) {
		tn, ap := bookedTenant(t)

		_, err := AddNote(tn, ap.ID, "first")
		require.NoError(t, err)
		got, err := AddNote(tn, ap.ID, "second")
		require.NoError(t, err)
		assert.Equal(t, []string{"second", "first"}, got.Notes)

		got, err = EditNote(tn, ap.ID, 1, "first, edited")
		require.NoError(t, err)
		assert.Equal(t, []string{"second", "first, edited"}, got.Notes)

		got, err = RemoveNote(tn, ap.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"first, edited"}, got.Notes)
	})

	t.Run("note index out of range is a validation error", func(t *testing.T) {
		tn, ap := bookedTenant(t)
		_, err := EditNote(tn, ap.ID, 0, "text")
		assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
		_, err = RemoveNote(tn, ap.ID, -1)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
	})

	t.Run("rename", func(t *testing.T) {
		tn, ap := bookedTenant(t)
		got, err := Rename(tn, ap.ID, "  Ana Clara ")
		require.NoError(t, err)
		assert.Equal(t, "Ana Clara", got.ClientName)

		_, err = Rename(tn, "missing", "Bia")
		assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
	})
}
