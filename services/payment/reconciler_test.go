package payment

import (
	"testing"
	"time"

	"tourly/models"
	"tourly/services/events"

	"go.uber.org/zap"
)

func newTestReconciler(repo *fakePaymentRepo, bookings *fakeBookings, provider Provider) *StatusReconciler {
	return &StatusReconciler{
		Repo:     repo,
		Bookings: bookings,
		Providers: map[string]Provider{
			"momo": provider,
		},
		Events:  events.NopPublisher{},
		Logger:  zap.NewNop(),
		Timeout: time.Second,
	}
}

func seedRedirectPayment(repo *fakePaymentRepo) *models.Payment {
	p := &models.Payment{
		ID:                    "pay-1",
		BookingID:             "bk-1",
		Method:                "momo",
		Amount:                100,
		Currency:              "VND",
		Status:                models.PaymentPendingConfirmation,
		ProviderTransactionID: "order-123",
	}
	repo.Create(p)
	return p
}

func TestResolvePaidOrder(t *testing.T) {
	repo := newFakePaymentRepo()
	bookings := &fakeBookings{bk: pendingBooking()}
	provider := &fakeProvider{orderStatus: OrderPaid}
	rec := newTestReconciler(repo, bookings, provider)
	seedRedirectPayment(repo)

	res, err := rec.Resolve("bk-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != models.PaymentPaid {
		t.Errorf("status = %s, want paid", res.Status)
	}
	if bookings.paidCnt != 1 {
		t.Errorf("MarkPaid calls = %d, want 1", bookings.paidCnt)
	}

	stored, _ := repo.GetByID("pay-1")
	if stored.Status != models.PaymentSucceeded {
		t.Errorf("stored payment status = %s, want succeeded", stored.Status)
	}
}

func TestResolveIsIdempotentAfterSettlement(t *testing.T) {
	repo := newFakePaymentRepo()
	bookings := &fakeBookings{bk: pendingBooking()}
	provider := &fakeProvider{orderStatus: OrderPaid}
	rec := newTestReconciler(repo, bookings, provider)
	seedRedirectPayment(repo)

	if _, err := rec.Resolve("bk-1"); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}

	// The payment settled; the second call answers from storage without
	// querying the provider again.
	res, err := rec.Resolve("bk-1")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if res.Status != models.PaymentPaid {
		t.Errorf("status = %s, want paid", res.Status)
	}
	if provider.queries != 1 {
		t.Errorf("QueryOrder calls = %d, want 1", provider.queries)
	}
}

func TestResolveFailedOrder(t *testing.T) {
	repo := newFakePaymentRepo()
	bookings := &fakeBookings{bk: pendingBooking()}
	provider := &fakeProvider{orderStatus: OrderFailed}
	rec := newTestReconciler(repo, bookings, provider)
	seedRedirectPayment(repo)

	res, err := rec.Resolve("bk-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != models.PaymentFailed {
		t.Errorf("status = %s, want failed", res.Status)
	}
	if bookings.failCnt != 1 {
		t.Errorf("MarkPaymentFailed calls = %d, want 1", bookings.failCnt)
	}

	stored, _ := repo.GetByID("pay-1")
	if stored.FailureReason == "" {
		t.Error("expected a recorded failure reason")
	}
}

func TestResolveAmbiguousProviderAnswerStaysPending(t *testing.T) {
	repo := newFakePaymentRepo()
	bookings := &fakeBookings{bk: pendingBooking()}
	provider := &fakeProvider{queryErr: ErrProviderTimeout}
	rec := newTestReconciler(repo, bookings, provider)
	seedRedirectPayment(repo)

	res, err := rec.Resolve("bk-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != models.PaymentPending {
		t.Errorf("status = %s, want pending", res.Status)
	}

	// Nothing may settle on an inconclusive answer.
	stored, _ := repo.GetByID("pay-1")
	if stored.Terminal() {
		t.Errorf("payment settled to %s on an inconclusive query", stored.Status)
	}
}

func TestResolveProviderStillPending(t *testing.T) {
	repo := newFakePaymentRepo()
	bookings := &fakeBookings{bk: pendingBooking()}
	provider := &fakeProvider{orderStatus: OrderPending}
	rec := newTestReconciler(repo, bookings, provider)
	seedRedirectPayment(repo)

	res, err := rec.Resolve("bk-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != models.PaymentPending {
		t.Errorf("status = %s, want pending", res.Status)
	}
}

func TestResolveWithoutPaymentFallsBackToBooking(t *testing.T) {
	tests := []struct {
		bookingState models.PaymentState
		want         models.PaymentState
	}{
		{models.PaymentPaid, models.PaymentPaid},
		{models.PaymentFailed, models.PaymentFailed},
		{models.PaymentUnpaid, models.PaymentPending},
	}
	for _, tc := range tests {
		bk := pendingBooking()
		bk.PaymentStatus = tc.bookingState
		rec := newTestReconciler(newFakePaymentRepo(), &fakeBookings{bk: bk}, &fakeProvider{})

		res, err := rec.Resolve("bk-1")
		if err != nil {
			t.Fatalf("Resolve with booking state %s: %v", tc.bookingState, err)
		}
		if res.Status != tc.want {
			t.Errorf("booking state %s: resolution = %s, want %s", tc.bookingState, res.Status, tc.want)
		}
	}
}

func TestResolvePaidOrderAfterCancelReportsRefund(t *testing.T) {
	repo := newFakePaymentRepo()
	bk := pendingBooking()
	bk.Status = models.BookingCancelled
	bk.PaymentStatus = models.PaymentUnpaid
	bookings := &fakeBookings{bk: bk}
	provider := &fakeProvider{orderStatus: OrderPaid}
	rec := newTestReconciler(repo, bookings, provider)
	seedRedirectPayment(repo)

	// The provider confirms the charge, but the booking was cancelled while
	// the payment was in flight. The resolution is refunded, never paid.
	res, err := rec.Resolve("bk-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != models.PaymentRefunded {
		t.Errorf("status = %s, want refunded", res.Status)
	}
	if res.Booking.PaymentStatus != models.PaymentRefunded {
		t.Errorf("booking payment status = %s, want refunded", res.Booking.PaymentStatus)
	}
}

func TestSweepExpiresStaleCapture(t *testing.T) {
	repo := newFakePaymentRepo()
	bookings := &fakeBookings{bk: pendingBooking()}
	rec := newTestReconciler(repo, bookings, &fakeProvider{})

	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo.Create(&models.Payment{
		ID:        "pay-1",
		BookingID: "bk-1",
		Method:    "card",
		Amount:    100,
		Status:    models.PaymentInitiated,
		CreatedAt: created,
	})

	if err := rec.Sweep(created.Add(30*time.Minute), 100); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	stored, _ := repo.GetByID("pay-1")
	if stored.Status != models.PaymentStatusFailed {
		t.Errorf("stored payment status = %s, want failed", stored.Status)
	}
	if stored.FailureReason == "" {
		t.Error("expected a recorded failure reason")
	}
	if bookings.failCnt != 1 {
		t.Errorf("MarkPaymentFailed calls = %d, want 1", bookings.failCnt)
	}
}

func TestSweepResolvesStuckRedirect(t *testing.T) {
	repo := newFakePaymentRepo()
	bookings := &fakeBookings{bk: pendingBooking()}
	provider := &fakeProvider{orderStatus: OrderPaid}
	rec := newTestReconciler(repo, bookings, provider)

	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	p := seedRedirectPayment(repo)
	repo.payments[p.ID].CreatedAt = created

	if err := rec.Sweep(created.Add(30*time.Minute), 100); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	stored, _ := repo.GetByID(p.ID)
	if stored.Status != models.PaymentSucceeded {
		t.Errorf("stored payment status = %s, want succeeded", stored.Status)
	}
	if bookings.paidCnt != 1 {
		t.Errorf("MarkPaid calls = %d, want 1", bookings.paidCnt)
	}
}

func TestSweepLeavesRecentPaymentsAlone(t *testing.T) {
	repo := newFakePaymentRepo()
	bookings := &fakeBookings{bk: pendingBooking()}
	rec := newTestReconciler(repo, bookings, &fakeProvider{})

	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo.Create(&models.Payment{
		ID:        "pay-1",
		BookingID: "bk-1",
		Method:    "card",
		Amount:    100,
		Status:    models.PaymentInitiated,
		CreatedAt: created,
	})

	// The cutoff predates the payment; a fresh capture may still settle on
	// its own.
	if err := rec.Sweep(created.Add(-time.Minute), 100); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	stored, _ := repo.GetByID("pay-1")
	if stored.Terminal() {
		t.Errorf("recent payment settled to %s by the sweep", stored.Status)
	}
}

func TestResolveInitiatedDirectCaptureIsPending(t *testing.T) {
	repo := newFakePaymentRepo()
	bookings := &fakeBookings{bk: pendingBooking()}
	provider := &fakeProvider{orderStatus: OrderPaid}
	rec := newTestReconciler(repo, bookings, provider)

	// A direct capture that never settled has no provider order to query.
	repo.Create(&models.Payment{
		ID:        "pay-1",
		BookingID: "bk-1",
		Method:    "card",
		Amount:    100,
		Status:    models.PaymentInitiated,
	})

	res, err := rec.Resolve("bk-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != models.PaymentPending {
		t.Errorf("status = %s, want pending", res.Status)
	}
	if provider.queries != 0 {
		t.Errorf("QueryOrder calls = %d, want 0", provider.queries)
	}
}
