package entitlements

import (
	"github.com/menupilot/menupilot/app/models"
)

// Feature identifies a gated platform feature.
type Feature string

const (
	FeatureARModels  Feature = "ar_models"
	FeatureKDS       Feature = "kds"
	FeatureAnalytics Feature = "analytics"
)

// Features is the closed set of feature flags. A fixed struct instead of a
// string-keyed map so a typo can never silently disable an entitlement.
type Features struct {
	ARModels  bool `json:"ar_models"`
	KDS       bool `json:"kds"`
	Analytics bool `json:"analytics"`
}

// Has returns the flag for a single feature. Unknown features are off.
func (f Features) Has(feature Feature) bool {
	switch feature {
	case FeatureARModels:
		return f.ARModels
	case FeatureKDS:
		return f.KDS
	case FeatureAnalytics:
		return f.Analytics
	}
	return false
}

// Limits is the closed set of per-plan resource ceilings.
type Limits struct {
	MaxDishes int `json:"max_dishes"`
	MaxStaff  int `json:"max_staff"`
}

// Usage holds the live counts of quota-constrained resources for a tenant.
type Usage struct {
	DishCount  int `json:"dish_count"`
	StaffCount int `json:"staff_count"`
}

// Entitlement is the effective view for a tenant: what the plan grants,
// filtered by subscription standing, plus current usage.
type Entitlement struct {
	Plan     *models.Plan `json:"plan,omitempty"`
	Status   string       `json:"subscription_status"`
	Features Features     `json:"features"`
	Limits   Limits       `json:"limits"`
	Usage    Usage        `json:"usage"`
}

// planFeatures maps the plan's flags into the closed feature set.
func planFeatures(plan *models.Plan) Features {
	if plan == nil {
		return Features{}
	}
	return Features{
		ARModels:  plan.FeatureARModels,
		KDS:       plan.FeatureKDS,
		Analytics: plan.FeatureAnalytics,
	}
}

// planLimits maps the plan's ceilings into the closed limit set.
func planLimits(plan *models.Plan) Limits {
	if plan == nil {
		return Limits{}
	}
	return Limits{
		MaxDishes: plan.MaxDishes,
		MaxStaff:  plan.MaxStaff,
	}
}
