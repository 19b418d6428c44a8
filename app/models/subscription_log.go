package models

import "time"

const (
	SubscriptionActionCreate       = "create"
	SubscriptionActionAssignPlan   = "assign_plan"
	SubscriptionActionExtend       = "extend"
	SubscriptionActionChangePlan   = "change_plan"
	SubscriptionActionSuspend      = "suspend"
	SubscriptionActionResume       = "resume"
	SubscriptionActionUpdateStatus = "update_status"
)

// SubscriptionLog is the append-only audit journal of subscription lifecycle
// actions. Entries are written in the same transaction as the transition they
// record and are never updated or deleted.
type SubscriptionLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RestaurantID   uint      `gorm:"not null;index" json:"restaurant_id"`
	Action         string    `gorm:"type:varchar(32);not null" json:"action"`
	PlanID         *uint     `gorm:"index" json:"plan_id"`
	DurationInDays *int      `json:"duration_in_days,omitempty"`
	PerformedBy    uint      `gorm:"not null;index" json:"performed_by"`
	Detail         string    `gorm:"type:varchar(255)" json:"detail,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// SubscriptionLogView is a log entry resolved for display with tenant name
// and actor username.
type SubscriptionLogView struct {
	SubscriptionLog
	RestaurantName string `json:"restaurant_name"`
	PerformedByName string `json:"performed_by_name"`
	PlanName        string `json:"plan_name,omitempty"`
}
