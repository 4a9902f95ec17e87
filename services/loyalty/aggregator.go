package loyalty

import (
	"math"
	"time"

	"tourly/models"
)

// Membership tiers, evaluated highest-first with inclusive lower bounds.
const (
	TierVIP      = "VIP Explorer"
	TierAdvanced = "Advanced Explorer"
	TierExplorer = "Explorer"
	TierBeginner = "Beginner Explorer"
)

// MembershipLevel classifies cumulative spend into a loyalty tier.
func MembershipLevel(totalSpent float64) string {
	switch {
	case totalSpent >= 5000:
		return TierVIP
	case totalSpent >= 2000:
		return TierAdvanced
	case totalSpent >= 500:
		return TierExplorer
	default:
		return TierBeginner
	}
}

// RewardPoints converts cumulative spend into points.
func RewardPoints(totalSpent float64) int {
	return int(math.Floor(totalSpent / 10))
}

// Compute derives the full loyalty read model from a tourist's booking and
// review history. Spend sums over every booking regardless of status,
// matching the product's historical accounting. Confirmed bookings whose
// tour date has passed count as completed even before an explicit complete
// command lands.
func Compute(bookings []models.Booking, reviews []models.Review, now time.Time) models.LoyaltyStats {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := models.LoyaltyStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		stats.TotalSpent += b.TotalPrice
		if !b.CreatedAt.Before(monthStart) {
			stats.MonthlySpent += b.TotalPrice
		}

		switch {
		case b.Status == models.BookingCompleted:
			stats.CompletedTours++
		case b.Status == models.BookingConfirmed && b.ScheduledAt.Before(now):
			stats.CompletedTours++
		case b.Status == models.BookingConfirmed:
			stats.UpcomingTours++
		}
	}

	stats.TotalReviews = len(reviews)
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		stats.AverageRating = round1(float64(sum) / float64(len(reviews)))
	}

	stats.MembershipLevel = MembershipLevel(stats.TotalSpent)
	stats.RewardPoints = RewardPoints(stats.TotalSpent)
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
