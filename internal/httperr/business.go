package httperr

import (
	"errors"
	"fmt"
)

// Error codes surfaced to API callers. The UI maps each one to a specific
// message, so coupon failures stay split into their three reasons.
const (
	CodeValidation        = "validation"
	CodeNotFound          = "not_found"
	CodeSlotUnavailable   = "slot_unavailable"
	CodeDuplicateCode     = "duplicate_code"
	CodeCouponNotFound    = "coupon_not_found"
	CodeCouponExpired     = "coupon_expired"
	CodeCouponUsed        = "coupon_used"
	CodeInsufficientStock = "insufficient_stock"
	CodeStoreUnavailable  = "store_unavailable"
	CodeConflict          = "conflict"
)

type BusinessError struct {
	Code    string
	Message string
	Ref     string // offending entity, when one exists
	Err     error
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// --------- Constructors ---------

func ErrValidation(msg string) error {
	return BusinessError{Code: CodeValidation, Message: msg}
}

func ErrNotFound(entity, ref string) error {
	return BusinessError{
		Code:    CodeNotFound,
		Message: entity + " not found",
		Ref:     ref,
	}
}

func ErrSlotUnavailable(date, slot string) error {
	return BusinessError{
		Code:    CodeSlotUnavailable,
		Message: fmt.Sprintf("slot %s %s is not available", date, slot),
		Ref:     slot,
	}
}

func ErrDuplicateCode(code string) error {
	return BusinessError{
		Code:    CodeDuplicateCode,
		Message: "coupon code already exists",
		Ref:     code,
	}
}

func ErrCouponNotFound(code string) error {
	return BusinessError{Code: CodeCouponNotFound, Message: "coupon not found", Ref: code}
}

func ErrCouponExpired(code string) error {
	return BusinessError{Code: CodeCouponExpired, Message: "coupon expired", Ref: code}
}

func ErrCouponUsed(code string) error {
	return BusinessError{Code: CodeCouponUsed, Message: "coupon already used", Ref: code}
}

func ErrInsufficientStock(itemID string) error {
	return BusinessError{
		Code:    CodeInsufficientStock,
		Message: "not enough stock for item " + itemID,
		Ref:     itemID,
	}
}

func ErrStoreUnavailable(err error) error {
	return BusinessError{Code: CodeStoreUnavailable, Message: "document store unavailable", Err: err}
}

func ErrConflict(msg string) error {
	return BusinessError{Code: CodeConflict, Message: msg}
}
