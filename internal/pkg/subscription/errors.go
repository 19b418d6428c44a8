package subscription

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRestaurantNotFound is returned for an unknown tenant id.
	ErrRestaurantNotFound = errors.New("restaurant not found")
	// ErrPlanNotFound is returned when an operation references an unknown plan.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrInvalidTransition is returned when a state machine guard rejects the
	// requested operation, e.g. extending by a non-positive day count.
	ErrInvalidTransition = errors.New("invalid subscription transition")
	// ErrPaymentVerificationFailed is returned when the gateway callback does
	// not match the pending charge.
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	// ErrNoPendingPayment is returned when a capture arrives for a tenant
	// without a pending charge.
	ErrNoPendingPayment = errors.New("no pending payment order")
)

// DimensionExcess describes one quota dimension that blocks a plan change.
type DimensionExcess struct {
	Dimension string `json:"dimension"`
	Current   int64  `json:"current"`
	Limit     int    `json:"limit"`
}

// DowngradeBlockedError rejects a plan change that would put current usage
// over the new plan's limits. It names every offending dimension so the
// operator can resolve all of them before retrying.
type DowngradeBlockedError struct {
	Dimensions []DimensionExcess
}

func (e *DowngradeBlockedError) Error() string {
	parts := make([]string, 0, len(e.Dimensions))
	for _, d := range e.Dimensions {
		parts = append(parts, fmt.Sprintf("%s: %d in use, new limit %d", d.Dimension, d.Current, d.Limit))
	}
	return "downgrade blocked: " + strings.Join(parts, "; ")
}
