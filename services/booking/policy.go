package booking

// CancelCause classifies why a booking is being cancelled. The cause decides
// whether the time-to-tour tiers apply at all.
type CancelCause string

const (
	CauseVoluntary      CancelCause = "voluntary"
	CauseGuideInitiated CancelCause = "guide_initiated"
	CauseWeather        CancelCause = "weather"
	CauseEmergency      CancelCause = "emergency"
)

// RefundFraction returns the proportion of the paid amount returned to the
// tourist. Guide-initiated, weather and emergency cancellations always refund
// in full regardless of timing. Voluntary cancellations tier on hours until
// the tour, with boundary values belonging to the higher-refund tier.
func RefundFraction(hoursUntilTour float64, cause CancelCause) float64 {
	switch cause {
	case CauseGuideInitiated, CauseWeather, CauseEmergency:
		return 1.0
	}

	switch {
	case hoursUntilTour >= 24:
		return 1.0
	case hoursUntilTour >= 12:
		return 0.5
	default:
		return 0.0
	}
}
