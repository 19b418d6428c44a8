package models

import (
	"testing"
	"time"
)

func TestIsValidSubscriptionStatus(t *testing.T) {
	for _, status := range []string{"trial", "payment_pending", "active", "suspended", "expired"} {
		if !IsValidSubscriptionStatus(status) {
			t.Fatalf("expected status %q to be valid", status)
		}
	}
	for _, status := range []string{"", "Active", "cancelled", "paused"} {
		if IsValidSubscriptionStatus(status) {
			t.Fatalf("expected status %q to be invalid", status)
		}
	}
}

func TestRestaurantStandingHelpers(t *testing.T) {
	tests := []struct {
		status       string
		goodStanding bool
		writeLocked  bool
	}{
		{status: SubscriptionStatusTrial, goodStanding: true, writeLocked: false},
		{status: SubscriptionStatusPaymentPending, goodStanding: false, writeLocked: false},
		{status: SubscriptionStatusActive, goodStanding: true, writeLocked: false},
		{status: SubscriptionStatusSuspended, goodStanding: false, writeLocked: true},
		{status: SubscriptionStatusExpired, goodStanding: false, writeLocked: true},
	}

	for _, tt := range tests {
		r := &Restaurant{SubscriptionStatus: tt.status}
		if got := r.IsInGoodStanding(); got != tt.goodStanding {
			t.Fatalf("IsInGoodStanding() for %q = %v, want %v", tt.status, got, tt.goodStanding)
		}
		if got := r.IsWriteLocked(); got != tt.writeLocked {
			t.Fatalf("IsWriteLocked() for %q = %v, want %v", tt.status, got, tt.writeLocked)
		}
	}
}

func TestIsPastWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r := &Restaurant{}
	if r.IsPastWindow(now) {
		t.Fatal("nil window never counts as elapsed")
	}

	past := now.Add(-time.Minute)
	r.SubscriptionEndsAt = &past
	if !r.IsPastWindow(now) {
		t.Fatal("expected elapsed window")
	}

	future := now.Add(time.Minute)
	r.SubscriptionEndsAt = &future
	if r.IsPastWindow(now) {
		t.Fatal("expected live window")
	}
}

func TestRestaurantSlugValidation(t *testing.T) {
	r := &Restaurant{Slug: "la-piazza-2", Name: "La Piazza", SubscriptionStatus: SubscriptionStatusTrial}
	if err := r.Validate(); err != nil {
		t.Fatalf("expected valid restaurant, got %v", err)
	}

	for _, slug := range []string{"", "La Piazza", "piazza!", "UPPER"} {
		r.Slug = slug
		if err := r.Validate(); err == nil {
			t.Fatalf("expected slug %q to be rejected", slug)
		}
	}
}
