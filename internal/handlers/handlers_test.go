package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacquerlab/salon-scheduler/internal/config"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
	"github.com/lacquerlab/salon-scheduler/internal/routes"
	"github.com/lacquerlab/salon-scheduler/internal/store"
)

// api drives the real route table against the in-memory store. No database,
// no redis: the audit trail is disabled and attachments report themselves
// unconfigured.
type api struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		RewardMode:    "fixed",
		RewardPercent: 10,
	}
	tenants := repository.NewTenants(store.NewMemoryStore())
	hub := notify.NewHub()

	r := gin.New()
	routes.RegisterRoutes(r, nil, cfg, hub, tenants)

	return &api{t: t, router: r}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *api) loginAsAdmin(instanceID string) {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/"+instanceID+"/login", gin.H{
		"username": repository.DefaultAdminUser,
		"password": repository.DefaultAdminPassword,
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	a.token = resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Code string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code
}

func TestBookingFlow(t *testing.T) {
	a := newAPI(t)
	a.loginAsAdmin("salon1")

	// Admin opens a day.
	w := a.do(http.MethodPost, "/api/salon1/availability", gin.H{
		"date":  "2025-06-10",
		"slots": []string{"09:00", "10:00"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// A client (no token needed for the public surface) sees it.
	saved := a.token
	a.token = ""

	w = a.do(http.MethodGet, "/api/salon1/availability/dates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dates := decode[struct {
		Dates []string `json:"dates"`
	}](t, w)
	assert.Equal(t, []string{"2025-06-10"}, dates.Dates)

	// Booking 09:00 removes it and grants the configured reward.
	w = a.do(http.MethodPost, "/api/salon1/appointments", gin.H{
		"date":       "2025-06-10",
		"time":       "09:00",
		"clientName": "Ana",
		"phone":      "555-0100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booked := decode[struct {
		Appointment struct {
			ID string `json:"id"`
		} `json:"appointment"`
		Reward *struct {
			Discount float64 `json:"discount"`
		} `json:"reward"`
	}](t, w)
	require.NotNil(t, booked.Reward)
	assert.Equal(t, 10.0, booked.Reward.Discount)

	w = a.do(http.MethodGet, "/api/salon1/availability/2025-06-10", nil)
	day := decode[struct {
		Slots []string `json:"slots"`
	}](t, w)
	assert.Equal(t, []string{"10:00"}, day.Slots)

	// A second grab of the same slot is rejected, not double-booked.
	w = a.do(http.MethodPost, "/api/salon1/appointments", gin.H{
		"date":       "2025-06-10",
		"time":       "09:00",
		"clientName": "Bia",
		"phone":      "555-0101",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_unavailable", errorCode(t, w))

	// Cancelling returns the slot.
	a.token = saved
	w = a.do(http.MethodDelete, "/api/salon1/appointments/"+booked.Appointment.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/api/salon1/availability/2025-06-10", nil)
	day = decode[struct {
		Slots []string `json:"slots"`
	}](t, w)
	assert.ElementsMatch(t, []string{"09:00", "10:00"}, day.Slots)
}

func TestAvailabilityDateRange(t *testing.T) {
	a := newAPI(t)
	a.loginAsAdmin("salon1")

	for _, date := range []string{"2025-06-10", "2025-06-15", "2025-06-20"} {
		w := a.do(http.MethodPost, "/api/salon1/availability", gin.H{
			"date":  date,
			"slots": []string{"09:00"},
		})
		require.Equal(t, http.StatusOK, w.Code)
	}
	a.token = ""

	w := a.do(http.MethodGet, "/api/salon1/availability/dates?from=2025-06-11&to=2025-06-19", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dates := decode[struct {
		Dates []string `json:"dates"`
	}](t, w)
	assert.Equal(t, []string{"2025-06-15"}, dates.Dates)

	w = a.do(http.MethodGet, "/api/salon1/availability/dates?from=junk", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutesNeedAuth(t *testing.T) {
	a := newAPI(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/salon1/availability"},
		{http.MethodGet, "/api/salon1/appointments"},
		{http.MethodPost, "/api/salon1/coupons"},
		{http.MethodGet, "/api/salon1/reports/summary"},
	} {
		w := a.do(route.method, route.path, gin.H{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func TestAuditLogsDisabledWithoutDatabase(t *testing.T) {
	a := newAPI(t)
	a.loginAsAdmin("salon1")

	w := a.do(http.MethodGet, "/api/salon1/audit-logs", nil)
	require.Equal(t, http.StatusNotImplemented, w.Code, w.Body.String())
	assert.Equal(t, "audit_disabled", errorCode(t, w))
}

func TestCouponLifecycle(t *testing.T) {
	a := newAPI(t)
	a.loginAsAdmin("salon1")

	w := a.do(http.MethodPost, "/api/salon1/coupons", gin.H{
		"code":     "SAVE10",
		"discount": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Duplicate issuance collides.
	w = a.do(http.MethodPost, "/api/salon1/coupons", gin.H{
		"code":     "SAVE10",
		"discount": 20,
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "duplicate_code", errorCode(t, w))

	// Public validation sees it; an unknown code reports precisely.
	w = a.do(http.MethodGet, "/api/salon1/coupons/SAVE10/validate", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/salon1/coupons/NOPE/validate", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "coupon_not_found", errorCode(t, w))

	// Redeem once, then never again.
	w = a.do(http.MethodPost, "/api/salon1/coupons/redeem", gin.H{"code": "SAVE10"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/salon1/coupons/redeem", gin.H{"code": "SAVE10"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "coupon_used", errorCode(t, w))
}

func TestCompletionAndReports(t *testing.T) {
	a := newAPI(t)
	a.loginAsAdmin("salon1")

	w := a.do(http.MethodPost, "/api/salon1/services", gin.H{"name": "Manicure", "price": 50})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc := decode[struct {
		ID string `json:"id"`
	}](t, w)

	w = a.do(http.MethodPost, "/api/salon1/inventory", gin.H{"name": "Glue", "cost": 1.5, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[struct {
		ID string `json:"id"`
	}](t, w)

	w = a.do(http.MethodPost, "/api/salon1/availability", gin.H{
		"date":  "2025-06-10",
		"slots": []string{"09:00"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/api/salon1/appointments", gin.H{
		"date":       "2025-06-10",
		"time":       "09:00",
		"clientName": "Ana",
		"phone":      "555-0100",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	booked := decode[struct {
		Appointment struct {
			ID string `json:"id"`
		} `json:"appointment"`
	}](t, w)

	// Overdrawing stock fails in full.
	w = a.do(http.MethodPost, fmt.Sprintf("/api/salon1/appointments/%s/complete", booked.Appointment.ID), gin.H{
		"serviceId":     svc.ID,
		"materialsUsed": []gin.H{{"itemId": item.ID, "quantity": 5}},
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "insufficient_stock", errorCode(t, w))

	// A sane completion settles and shows up in the summary.
	w = a.do(http.MethodPost, fmt.Sprintf("/api/salon1/appointments/%s/complete", booked.Appointment.ID), gin.H{
		"serviceId":     svc.ID,
		"materialsUsed": []gin.H{{"itemId": item.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/api/salon1/reports/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sum := decode[struct {
		TotalRevenue float64 `json:"totalRevenue"`
		TotalCost    float64 `json:"totalCost"`
		TotalProfit  float64 `json:"totalProfit"`
		Completed    int     `json:"completed"`
	}](t, w)
	assert.Equal(t, 1, sum.Completed)
	assert.Equal(t, 50.0, sum.TotalRevenue)
	assert.Equal(t, 3.0, sum.TotalCost)
	assert.Equal(t, 47.0, sum.TotalProfit)

	// Inventory reflects the decrement.
	w = a.do(http.MethodGet, "/api/salon1/inventory", nil)
	items := decode[[]struct {
		Quantity int `json:"quantity"`
	}](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestTenantsAreIsolated(t *testing.T) {
	a := newAPI(t)
	a.loginAsAdmin("salon1")

	w := a.do(http.MethodPost, "/api/salon1/availability", gin.H{
		"date":  "2025-06-10",
		"slots": []string{"09:00"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// salon1's admin token does not open salon2's doors.
	w = a.do(http.MethodPost, "/api/salon2/availability", gin.H{
		"date":  "2025-06-10",
		"slots": []string{"09:00"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// And salon2's calendar is untouched by salon1's.
	a.token = ""
	w = a.do(http.MethodGet, "/api/salon2/availability/2025-06-10", nil)
	day := decode[struct {
		Slots []string `json:"slots"`
	}](t, w)
	assert.Empty(t, day.Slots)
}
