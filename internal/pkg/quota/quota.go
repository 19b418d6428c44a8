package quota

import "fmt"

// Kind identifies a quota-constrained resource.
type Kind string

const (
	KindDish  Kind = "dish"
	KindStaff Kind = "staff"
)

// LimitReachedError is the hard quota block, carrying the dimension and the
// current/max values for the client.
type LimitReachedError struct {
	Kind    Kind  `json:"kind"`
	Current int64 `json:"current"`
	Max     int   `json:"max"`
}

func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("%s limit reached: %d of %d", e.Kind, e.Current, e.Max)
}

// Decision is the outcome of an admission check.
type Decision struct {
	Admitted bool
	// Inactive is set for staff overflow: creation proceeds but the new
	// user must be persisted deactivated.
	Inactive bool
	Warning  string
}

// StaffOverLimitWarning is attached to staff creations that exceeded quota.
const StaffOverLimitWarning = "limit exceeded, user inactive"

// evaluate applies the admission policy for one resource kind. Dishes are
// hard-blocked at the limit; staff creation always proceeds but overflows
// land inactive. Deactivated resources never count toward current.
func evaluate(kind Kind, current int64, limit int) (Decision, error) {
	if current < int64(limit) {
		return Decision{Admitted: true}, nil
	}
	switch kind {
	case KindStaff:
		return Decision{Admitted: true, Inactive: true, Warning: StaffOverLimitWarning}, nil
	default:
		return Decision{}, &LimitReachedError{Kind: kind, Current: current, Max: limit}
	}
}
