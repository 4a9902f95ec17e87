package loyalty

import (
	"fmt"
	"time"

	bookingRepo "tourly/database/repository/booking"
	reviewRepo "tourly/database/repository/review"
	"tourly/models"
)

// StatsService computes a tourist's loyalty stats on demand. Nothing here is
// cached or stored; every read recomputes from the source records.
type StatsService interface {
	TouristStats(touristID string) (*models.LoyaltyStats, error)
}

// DefaultStatsService composes server-side aggregates from the booking and
// review repositories instead of loading full history into application code.
type DefaultStatsService struct {
	Bookings bookingRepo.BookingRepository
	Reviews  reviewRepo.ReviewRepository

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultStatsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// TouristStats aggregates bookings and reviews for the tourist.
func (s *DefaultStatsService) TouristStats(touristID string) (*models.LoyaltyStats, error) {
	now := s.now()

	agg, err := s.Bookings.AggregateTouristStats(touristID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings: %w", err)
	}

	reviewCount, avgRating, err := s.Reviews.AggregateTouristRating(touristID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	stats := &models.LoyaltyStats{
		TotalBookings:   agg.TotalBookings,
		CompletedTours:  agg.Completed + agg.ConfirmedPast,
		UpcomingTours:   agg.Upcoming,
		TotalSpent:      agg.TotalSpent,
		MonthlySpent:    agg.MonthlySpent,
		TotalReviews:    reviewCount,
		AverageRating:   round1(avgRating),
		MembershipLevel: MembershipLevel(agg.TotalSpent),
		RewardPoints:    RewardPoints(agg.TotalSpent),
	}
	return stats, nil
}
