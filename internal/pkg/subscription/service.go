package subscription

import (
	"errors"
	"time"

	"github.com/menupilot/menupilot/app/models"
	"github.com/menupilot/menupilot/internal/pkg/payment"
	"gorm.io/gorm"
)

// SystemActor is the performed_by value for transitions driven by external
// events or the lifecycle sweep rather than an operator.
const SystemActor uint = 0

// Service owns every subscription status transition. All mutations of the
// tenant registry go through here so each one lands in the audit journal.
type Service struct {
	repo    Repository
	gateway payment.Gateway
	now     func() time.Time
}

// NewService creates a subscription service from an injected repository and
// payment gateway.
func NewService(repo Repository, gateway payment.Gateway) *Service {
	return &Service{repo: repo, gateway: gateway, now: time.Now}
}

// NewServiceFromDB creates a subscription service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, gateway payment.Gateway) *Service {
	return NewService(NewRepository(db), gateway)
}

// CreateRestaurant registers a new tenant. It starts in trial with no plan
// and no subscription window.
func (s *Service) CreateRestaurant(restaurant *models.Restaurant, actor uint) error {
	restaurant.PlanID = nil
	restaurant.SubscriptionStatus = models.SubscriptionStatusTrial
	restaurant.SubscriptionStartedAt = nil
	restaurant.SubscriptionEndsAt = nil
	if err := restaurant.Validate(); err != nil {
		return err
	}

	entry := &models.SubscriptionLog{
		Action:      models.SubscriptionActionCreate,
		PerformedBy: actor,
	}
	return s.repo.CreateRestaurant(restaurant, entry)
}

// AssignPlan puts a tenant on a plan and opens a pending charge. The tenant
// is not billable until the gateway confirms the payment, so the status moves
// to payment_pending, not active.
func (s *Service) AssignPlan(restaurantID, planID uint, durationDays int, actor uint) (*models.PaymentOrder, error) {
	if durationDays <= 0 {
		return nil, ErrInvalidTransition
	}

	restaurant, err := s.loadRestaurant(restaurantID)
	if err != nil {
		return nil, err
	}
	plan, err := s.repo.GetPlan(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	gatewayOrder, err := s.gateway.InitiatePayment(restaurantID, planID, plan.PriceCents)
	if err != nil {
		return nil, err
	}
	order := &models.PaymentOrder{
		ID:           gatewayOrder.ID,
		RestaurantID: restaurantID,
		PlanID:       planID,
		DurationDays: durationDays,
		AmountCents:  gatewayOrder.AmountCents,
		Status:       models.PaymentOrderStatusPending,
	}
	if err := s.repo.CreatePaymentOrder(order); err != nil {
		return nil, err
	}

	now := s.now()
	endsAt := now.AddDate(0, 0, durationDays)
	restaurant.PlanID = &plan.ID
	restaurant.SubscriptionStatus = models.SubscriptionStatusPaymentPending
	restaurant.SubscriptionType = plan.Interval
	restaurant.SubscriptionStartedAt = &now
	restaurant.SubscriptionEndsAt = &endsAt

	entry := &models.SubscriptionLog{
		RestaurantID:   restaurantID,
		Action:         models.SubscriptionActionAssignPlan,
		PlanID:         &plan.ID,
		DurationInDays: &durationDays,
		PerformedBy:    actor,
	}
	if err := s.repo.SaveTransition(restaurant, entry); err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmPayment applies the gateway's payment-captured event. The capture
// must name a pending order and carry a valid signature for that order;
// the tenant then moves payment_pending -> active.
func (s *Service) ConfirmPayment(orderID, paymentID, signature string) error {
	order, err := s.repo.GetPaymentOrder(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoPendingPayment
		}
		return err
	}
	if order.Status != models.PaymentOrderStatusPending {
		return ErrNoPendingPayment
	}
	if !s.gateway.VerifyPayment(orderID, paymentID, signature) {
		return ErrPaymentVerificationFailed
	}

	restaurant, err := s.loadRestaurant(order.RestaurantID)
	if err != nil {
		return err
	}
	if restaurant.SubscriptionStatus != models.SubscriptionStatusPaymentPending {
		return ErrInvalidTransition
	}

	now := s.now()
	order.Status = models.PaymentOrderStatusCaptured
	order.CapturedAt = &now
	restaurant.SubscriptionStatus = models.SubscriptionStatusActive

	entry := &models.SubscriptionLog{
		RestaurantID: restaurant.ID,
		Action:       models.SubscriptionActionUpdateStatus,
		PlanID:       restaurant.PlanID,
		PerformedBy:  SystemActor,
		Detail:       "payment captured",
	}
	return s.repo.CapturePayment(order, restaurant, entry)
}

// Extend lengthens the subscription window. An elapsed window extends from
// now, not from the old end date; an expired tenant comes back active.
func (s *Service) Extend(restaurantID uint, days int, actor uint) error {
	if days <= 0 {
		return ErrInvalidTransition
	}

	restaurant, err := s.loadRestaurant(restaurantID)
	if err != nil {
		return err
	}
	if restaurant.PlanID == nil {
		return ErrInvalidTransition
	}

	now := s.now()
	base := now
	if restaurant.SubscriptionEndsAt != nil && restaurant.SubscriptionEndsAt.After(now) {
		base = *restaurant.SubscriptionEndsAt
	}
	endsAt := base.AddDate(0, 0, days)
	restaurant.SubscriptionEndsAt = &endsAt
	if restaurant.SubscriptionStatus == models.SubscriptionStatusExpired {
		restaurant.SubscriptionStatus = models.SubscriptionStatusActive
	}

	entry := &models.SubscriptionLog{
		RestaurantID:   restaurantID,
		Action:         models.SubscriptionActionExtend,
		PlanID:         restaurant.PlanID,
		DurationInDays: &days,
		PerformedBy:    actor,
	}
	return s.repo.SaveTransition(restaurant, entry)
}

// ChangePlan swaps the tenant's plan. Blocked when current usage exceeds any
// limit of the new plan; the error lists every offending dimension and the
// plan reference stays untouched.
func (s *Service) ChangePlan(restaurantID, newPlanID uint, actor uint) error {
	restaurant, err := s.loadRestaurant(restaurantID)
	if err != nil {
		return err
	}
	plan, err := s.repo.GetPlan(newPlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	dishes, err := s.repo.CountActiveDishes(restaurantID)
	if err != nil {
		return err
	}
	staff, err := s.repo.CountActiveStaff(restaurantID)
	if err != nil {
		return err
	}

	var blocked []DimensionExcess
	if dishes > int64(plan.MaxDishes) {
		blocked = append(blocked, DimensionExcess{Dimension: "max_dishes", Current: dishes, Limit: plan.MaxDishes})
	}
	if staff > int64(plan.MaxStaff) {
		blocked = append(blocked, DimensionExcess{Dimension: "max_staff", Current: staff, Limit: plan.MaxStaff})
	}
	if len(blocked) > 0 {
		return &DowngradeBlockedError{Dimensions: blocked}
	}

	restaurant.PlanID = &plan.ID
	restaurant.SubscriptionType = plan.Interval

	entry := &models.SubscriptionLog{
		RestaurantID: restaurantID,
		Action:       models.SubscriptionActionChangePlan,
		PlanID:       &plan.ID,
		PerformedBy:  actor,
	}
	return s.repo.SaveTransition(restaurant, entry)
}

// Suspend locks the tenant manually. Allowed from any state except an
// already suspended one.
func (s *Service) Suspend(restaurantID uint, actor uint) error {
	restaurant, err := s.loadRestaurant(restaurantID)
	if err != nil {
		return err
	}
	if restaurant.SubscriptionStatus == models.SubscriptionStatusSuspended {
		return ErrInvalidTransition
	}

	restaurant.SubscriptionStatus = models.SubscriptionStatusSuspended

	entry := &models.SubscriptionLog{
		RestaurantID: restaurantID,
		Action:       models.SubscriptionActionSuspend,
		PlanID:       restaurant.PlanID,
		PerformedBy:  actor,
	}
	return s.repo.SaveTransition(restaurant, entry)
}

// Resume lifts a suspension. The resulting status is recalculated from the
// subscription window: a window that elapsed during the suspension resumes
// straight into expired, not active.
func (s *Service) Resume(restaurantID uint, actor uint) error {
	restaurant, err := s.loadRestaurant(restaurantID)
	if err != nil {
		return err
	}
	if restaurant.SubscriptionStatus != models.SubscriptionStatusSuspended {
		return ErrInvalidTransition
	}

	if restaurant.SubscriptionEndsAt != nil && restaurant.SubscriptionEndsAt.After(s.now()) {
		restaurant.SubscriptionStatus = models.SubscriptionStatusActive
	} else {
		restaurant.SubscriptionStatus = models.SubscriptionStatusExpired
	}

	entry := &models.SubscriptionLog{
		RestaurantID: restaurantID,
		Action:       models.SubscriptionActionResume,
		PlanID:       restaurant.PlanID,
		PerformedBy:  actor,
	}
	return s.repo.SaveTransition(restaurant, entry)
}

// ForceStatus sets the status directly, bypassing guards. Operator escape
// hatch; every use lands in the journal.
func (s *Service) ForceStatus(restaurantID uint, status string, actor uint) error {
	switch status {
	case models.SubscriptionStatusActive, models.SubscriptionStatusSuspended, models.SubscriptionStatusExpired:
	default:
		return ErrInvalidTransition
	}

	restaurant, err := s.loadRestaurant(restaurantID)
	if err != nil {
		return err
	}
	restaurant.SubscriptionStatus = status

	entry := &models.SubscriptionLog{
		RestaurantID: restaurantID,
		Action:       models.SubscriptionActionUpdateStatus,
		PlanID:       restaurant.PlanID,
		PerformedBy:  actor,
		Detail:       "operator override: " + status,
	}
	return s.repo.SaveTransition(restaurant, entry)
}

// ExpireOverdue sweeps active tenants whose window has elapsed into expired
// and returns how many transitions were applied. Safe to run concurrently:
// the transition only fires for tenants that are still active.
func (s *Service) ExpireOverdue(limit int) (int, error) {
	overdue, err := s.repo.ListExpiredActive(limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, restaurant := range overdue {
		entry := &models.SubscriptionLog{
			RestaurantID: restaurant.ID,
			Action:       models.SubscriptionActionUpdateStatus,
			PlanID:       restaurant.PlanID,
			PerformedBy:  SystemActor,
			Detail:       "subscription window elapsed",
		}
		applied, err := s.repo.ExpireRestaurant(restaurant.ID, entry)
		if err != nil {
			return expired, err
		}
		if applied {
			expired++
		}
	}
	return expired, nil
}

func (s *Service) loadRestaurant(id uint) (*models.Restaurant, error) {
	restaurant, err := s.repo.GetRestaurant(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return restaurant, nil
}
