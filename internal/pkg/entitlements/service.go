package entitlements

import (
	"errors"
	"time"

	"github.com/menupilot/menupilot/app/models"
	"github.com/menupilot/menupilot/app/repository"
	"gorm.io/gorm"
)

// ErrRestaurantNotFound is returned by the authenticated resolve path for an
// unknown tenant id. The public slug path never returns it.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// FeatureNotEntitledError names the feature a tenant is missing so the client
// can render an upgrade prompt.
type FeatureNotEntitledError struct {
	Feature Feature
}

func (e *FeatureNotEntitledError) Error() string {
	return "feature not entitled: " + string(e.Feature)
}

// UsageCounter supplies live usage counts. Implemented by the quota service;
// injected here so the resolver stays a pure read.
type UsageCounter interface {
	Usage(restaurantID uint) (Usage, error)
}

// Service resolves effective entitlements for tenants.
type Service struct {
	restaurants repository.RestaurantRepository
	usage       UsageCounter
	now         func() time.Time
}

// NewService creates an entitlement resolver.
func NewService(restaurants repository.RestaurantRepository, usage UsageCounter) *Service {
	return &Service{restaurants: restaurants, usage: usage, now: time.Now}
}

// ResolveForRestaurant returns the full entitlement view for a tenant:
// plan, features, limits and current usage.
func (s *Service) ResolveForRestaurant(restaurantID uint) (*Entitlement, error) {
	restaurant, err := s.restaurants.GetByID(restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	usage, err := s.usage.Usage(restaurantID)
	if err != nil {
		return nil, err
	}

	ent := s.entitlementFor(restaurant)
	ent.Usage = usage
	return ent, nil
}

// ResolvePublicBySlug returns only the feature map for the guest-facing menu
// page. Unknown slugs and plan-less tenants resolve to all-false instead of
// an error so anonymous callers cannot probe tenant existence.
func (s *Service) ResolvePublicBySlug(slug string) Features {
	restaurant, err := s.restaurants.GetBySlug(slug)
	if err != nil {
		return Features{}
	}
	return s.entitlementFor(restaurant).Features
}

// entitlementFor computes the plan/feature/limit view without usage.
// A feature is on iff the plan grants it and the subscription is in good
// standing; an elapsed window counts as expired even before the lifecycle
// sweep has persisted the transition.
func (s *Service) entitlementFor(restaurant *models.Restaurant) *Entitlement {
	status := restaurant.SubscriptionStatus
	if status == models.SubscriptionStatusActive && restaurant.IsPastWindow(s.now()) {
		status = models.SubscriptionStatusExpired
	}

	ent := &Entitlement{
		Plan:   restaurant.Plan,
		Status: status,
		Limits: planLimits(restaurant.Plan),
	}

	entitled := status == models.SubscriptionStatusActive || status == models.SubscriptionStatusTrial
	if entitled {
		ent.Features = planFeatures(restaurant.Plan)
	}
	return ent
}

// RequireFeature returns nil when the tenant currently has the feature and a
// FeatureNotEntitledError otherwise.
func (s *Service) RequireFeature(restaurantID uint, feature Feature) error {
	ent, err := s.ResolveForRestaurant(restaurantID)
	if err != nil {
		return err
	}
	if !ent.Features.Has(feature) {
		return &FeatureNotEntitledError{Feature: feature}
	}
	return nil
}
