package schedule

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/models"
)

// ===============================
// Coupon Registry
// ===============================

// RewardTTL is how long an auto-issued loyalty coupon stays redeemable.
const RewardTTL = 30 * 24 * time.Hour

// RewardPolicy picks the discount granted by auto-issued coupons. Which
// policy runs is a product decision, not fixed here.
type RewardPolicy interface {
	Discount() float64
}

type FixedPercentPolicy struct {
	Percent float64
}

func (p FixedPercentPolicy) Discount() float64 { return p.Percent }

// RandomPercentPolicy mirrors the "surprise offer" iterations: one of the
// configured percentages, chosen per issuance.
type RandomPercentPolicy struct {
	Percents []float64
}

func (p RandomPercentPolicy) Discount() float64 {
	if len(p.Percents) == 0 {
		return 0
	}
	return p.Percents[rand.Intn(len(p.Percents))]
}

// IssueCoupon appends a new unused coupon. Codes are the redemption key and
// must be unique per tenant, case-sensitive.
func IssueCoupon(
	t *models.Tenant,
	code string,
	discount float64,
	clientID string,
	expiresAt *time.Time,
	now time.Time,
) (*models.Coupon, error) {

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, httperr.ErrValidation("coupon code is required")
	}
	if discount <= 0 || discount > 100 {
		return nil, httperr.ErrValidation("discount must be between 0 and 100")
	}
	if findCoupon(t, code) != nil {
		return nil, httperr.ErrDuplicateCode(code)
	}

	c := models.Coupon{
		ID:        uuid.NewString(),
		Code:      code,
		Discount:  discount,
		ClientID:  clientID,
		Used:      false,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	t.Coupons = append(t.Coupons, c)
	return &t.Coupons[len(t.Coupons)-1], nil
}

// AutoIssue creates a loyalty coupon with a generated code and a 30-day
// expiry. The policy is sampled exactly once; a draw of 0 or less means no
// reward this time, reported as a nil coupon, not an error.
func AutoIssue(t *models.Tenant, clientID string, policy RewardPolicy, now time.Time) (*models.Coupon, error) {
	discount := policy.Discount()
	if discount <= 0 {
		return nil, nil
	}
	code := generateCode(t)
	expires := now.Add(RewardTTL)
	return IssueCoupon(t, code, discount, clientID, &expires, now)
}

// ValidateCoupon reports exactly why a code cannot be redeemed: not found,
// already used, or expired. A nil error means the coupon is redeemable.
func ValidateCoupon(t *models.Tenant, code string, now time.Time) (*models.Coupon, error) {
	c := findCoupon(t, code)
	if c == nil {
		return nil, httperr.ErrCouponNotFound(code)
	}
	if c.Used {
		return nil, httperr.ErrCouponUsed(code)
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return nil, httperr.ErrCouponExpired(code)
	}
	return c, nil
}

// RedeemCoupon marks the coupon used and, when an appointment id is given,
// applies the discount to it. The two happen together: the appointment is
// resolved before the coupon is touched, so a coupon is never burned
// without its effect landing.
func RedeemCoupon(t *models.Tenant, code, appointmentID string, now time.Time) (*models.Coupon, error) {
	c, err := ValidateCoupon(t, code, now)
	if err != nil {
		return nil, err
	}

	if appointmentID != "" {
		ap, err := FindAppointment(t, appointmentID)
		if err != nil {
			return nil, err
		}
		ap.Discount = c.Discount
		ap.CouponCode = c.Code
	}

	c.Used = true
	return c, nil
}

func RemoveCoupon(t *models.Tenant, id string) (models.Coupon, error) {
	for i := range t.Coupons {
		if t.Coupons[i].ID != id {
			continue
		}
		c := t.Coupons[i]
		t.Coupons = append(t.Coupons[:i], t.Coupons[i+1:]...)
		return c, nil
	}
	return models.Coupon{}, httperr.ErrNotFound("coupon", id)
}

func findCoupon(t *models.Tenant, code string) *models.Coupon {
	for i := range t.Coupons {
		if t.Coupons[i].Code == code {
			return &t.Coupons[i]
		}
	}
	return nil
}

func generateCode(t *models.Tenant) string {
	for {
		code := "NAIL-" + strings.ToUpper(uuid.NewString()[:8])
		if findCoupon(t, code) == nil {
			return code
		}
	}
}
