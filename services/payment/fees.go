package payment

import "math"

// round2 rounds half-up to 2 decimal places of the settlement currency.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// ServiceFee computes the fee charged on top of an amount at the given rate.
func ServiceFee(amount, feeRate float64) float64 {
	return round2(amount * feeRate)
}

// Quote returns the service fee and charge total for an amount paid with the
// method identified in the registry.
func (r *MethodRegistry) Quote(methodID string, amount float64) (fee, total float64, err error) {
	m, ok := r.Get(methodID)
	if !ok {
		return 0, 0, ErrUnknownMethod
	}
	fee = ServiceFee(amount, m.FeeRate)
	return fee, round2(amount + fee), nil
}
