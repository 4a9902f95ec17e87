package loyalty

import (
	"testing"
	"time"

	"tourly/models"
)

var statsNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestMembershipLevel(t *testing.T) {
	tests := []struct {
		spent float64
		want  string
	}{
		{0, TierBeginner},
		{499.99, TierBeginner},
		{500, TierExplorer},
		{1999.99, TierExplorer},
		{2000, TierAdvanced},
		{4999.99, TierAdvanced},
		{5000, TierVIP},
		{12000, TierVIP},
	}
	for _, tc := range tests {
		if got := MembershipLevel(tc.spent); got != tc.want {
			t.Errorf("MembershipLevel(%v) = %q, want %q", tc.spent, got, tc.want)
		}
	}
}

func TestRewardPoints(t *testing.T) {
	tests := []struct {
		spent float64
		want  int
	}{
		{0, 0},
		{9.99, 0},
		{10, 1},
		{47, 4},
		{1234.56, 123},
	}
	for _, tc := range tests {
		if got := RewardPoints(tc.spent); got != tc.want {
			t.Errorf("RewardPoints(%v) = %d, want %d", tc.spent, got, tc.want)
		}
	}
}

func TestComputeCountsConfirmedPastAsCompleted(t *testing.T) {
	bookings := []models.Booking{
		{Status: models.BookingCompleted, TotalPrice: 100, ScheduledAt: statsNow.Add(-72 * time.Hour)},
		{Status: models.BookingConfirmed, TotalPrice: 150, ScheduledAt: statsNow.Add(-24 * time.Hour)},
		{Status: models.BookingConfirmed, TotalPrice: 200, ScheduledAt: statsNow.Add(48 * time.Hour)},
		{Status: models.BookingPending, TotalPrice: 80, ScheduledAt: statsNow.Add(96 * time.Hour)},
		{Status: models.BookingCancelled, TotalPrice: 60, ScheduledAt: statsNow.Add(-48 * time.Hour)},
	}

	stats := Compute(bookings, nil, statsNow)

	if stats.TotalBookings != 5 {
		t.Errorf("total bookings = %d, want 5", stats.TotalBookings)
	}
	if stats.CompletedTours != 2 {
		t.Errorf("completed tours = %d, want 2 (completed plus confirmed-past)", stats.CompletedTours)
	}
	if stats.UpcomingTours != 1 {
		t.Errorf("upcoming tours = %d, want 1", stats.UpcomingTours)
	}
	// Spend accumulates over every booking regardless of status.
	if stats.TotalSpent != 590 {
		t.Errorf("total spent = %v, want 590", stats.TotalSpent)
	}
	if stats.MembershipLevel != TierExplorer {
		t.Errorf("membership = %q, want %q", stats.MembershipLevel, TierExplorer)
	}
	if stats.RewardPoints != 59 {
		t.Errorf("reward points = %d, want 59", stats.RewardPoints)
	}
}

func TestComputeMonthlySpentUsesCreationDate(t *testing.T) {
	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{TotalPrice: 100, CreatedAt: monthStart, ScheduledAt: statsNow.Add(48 * time.Hour)},
		{TotalPrice: 150, CreatedAt: statsNow.Add(-24 * time.Hour), ScheduledAt: statsNow.Add(48 * time.Hour)},
		{TotalPrice: 900, CreatedAt: monthStart.Add(-time.Minute), ScheduledAt: statsNow.Add(48 * time.Hour)},
	}

	stats := Compute(bookings, nil, statsNow)

	if stats.MonthlySpent != 250 {
		t.Errorf("monthly spent = %v, want 250 (bookings created this month only)", stats.MonthlySpent)
	}
	if stats.TotalSpent != 1150 {
		t.Errorf("total spent = %v, want 1150", stats.TotalSpent)
	}
}

func TestComputeAverageRating(t *testing.T) {
	reviews := []models.Review{
		{Rating: 5},
		{Rating: 4},
		{Rating: 4},
	}

	stats := Compute(nil, reviews, statsNow)

	if stats.TotalReviews != 3 {
		t.Errorf("total reviews = %d, want 3", stats.TotalReviews)
	}
	// 13/3 = 4.333..., reported to one decimal place.
	if stats.AverageRating != 4.3 {
		t.Errorf("average rating = %v, want 4.3", stats.AverageRating)
	}
}

func TestComputeNoReviews(t *testing.T) {
	stats := Compute(nil, nil, statsNow)
	if stats.AverageRating != 0 {
		t.Errorf("average rating = %v, want 0 with no reviews", stats.AverageRating)
	}
	if stats.MembershipLevel != TierBeginner {
		t.Errorf("membership = %q, want %q", stats.MembershipLevel, TierBeginner)
	}
}
