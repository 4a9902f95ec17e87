package models

// LoyaltyStats is the derived loyalty read model for a tourist. It is
// recomputed from booking and review history on every read; no stored
// counter is authoritative.
type LoyaltyStats struct {
	TotalBookings   int     `json:"totalBookings"`
	CompletedTours  int     `json:"completedTours"`
	UpcomingTours   int     `json:"upcomingTours"`
	TotalSpent      float64 `json:"totalSpent"`
	MonthlySpent    float64 `json:"monthlySpent"`
	AverageRating   float64 `json:"averageRating"`
	TotalReviews    int     `json:"totalReviews"`
	MembershipLevel string  `json:"membershipLevel"`
	RewardPoints    int     `json:"rewardPoints"`
}
