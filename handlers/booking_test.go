package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bookingRepo "tourly/database/repository/booking"
	"tourly/models"
	"tourly/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// stubBookingService scripts one booking and one error per test.
type stubBookingService struct {
	booking.BookingService

	bk  *models.Booking
	err error

	lastAllowUnpaid bool
	lastInitiator   string
	lastCause       booking.CancelCause
}

func (s *stubBookingService) CreateBooking(req models.CreateBookingRequest) (*models.Booking, error) {
	return s.bk, s.err
}

func (s *stubBookingService) GetBooking(id string) (*models.Booking, error) {
	return s.bk, s.err
}

func (s *stubBookingService) ListByTourist(touristID string) ([]models.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.bk == nil {
		return nil, nil
	}
	return []models.Booking{*s.bk}, nil
}

func (s *stubBookingService) Confirm(bookingID string, allowUnpaid bool) (*models.Booking, error) {
	s.lastAllowUnpaid = allowUnpaid
	return s.bk, s.err
}

func (s *stubBookingService) Cancel(bookingID, initiator string, cause booking.CancelCause) (*models.Booking, error) {
	s.lastInitiator = initiator
	s.lastCause = cause
	return s.bk, s.err
}

func (s *stubBookingService) Complete(bookingID string) (*models.Booking, error) {
	return s.bk, s.err
}

func newBookingRouter(svc booking.BookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(svc, zap.NewNop())
	r := gin.New()
	r.GET("/bookings", h.ListBookings)
	r.POST("/bookings", h.CreateBooking)
	r.GET("/bookings/:id", h.GetBooking)
	r.PUT("/bookings/:id/status", h.UpdateBookingStatus)
	return r
}

func sampleBooking() *models.Booking {
	return &models.Booking{
		ID:            "bk-1",
		TouristID:     "tourist-1",
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentUnpaid,
		ScheduledAt:   time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		TotalPrice:    120,
	}
}

func TestListBookingsRequiresUserID(t *testing.T) {
	r := newBookingRouter(&stubBookingService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestListBookingsWrapsResult(t *testing.T) {
	r := newBookingRouter(&stubBookingService{bk: sampleBooking()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings?user_id=tourist-1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string][]models.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body["bookings"]) != 1 {
		t.Errorf("bookings = %v, want one entry", body["bookings"])
	}
}

func TestListBookingsEmptyIsArray(t *testing.T) {
	r := newBookingRouter(&stubBookingService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings?user_id=tourist-1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"bookings":[]`)) {
		t.Errorf("body = %s, want an empty bookings array", w.Body.String())
	}
}

func TestCreateBookingCreated(t *testing.T) {
	r := newBookingRouter(&stubBookingService{bk: sampleBooking()})

	payload, _ := json.Marshal(models.CreateBookingRequest{
		TouristID:        "tourist-1",
		GuideID:          "guide-1",
		TourID:           "tour-1",
		ScheduledAt:      time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		ParticipantCount: 2,
		TotalPrice:       120,
		Currency:         "USD",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
}

func TestGetBookingNotFound(t *testing.T) {
	r := newBookingRouter(&stubBookingService{err: bookingRepo.ErrNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings/missing", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUpdateBookingStatusDispatch(t *testing.T) {
	svc := &stubBookingService{bk: sampleBooking()}
	r := newBookingRouter(svc)

	payload, _ := json.Marshal(models.UpdateBookingStatusRequest{
		Status:    models.BookingCancelled,
		Initiator: "guide",
		Cause:     "weather",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/bookings/bk-1/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if svc.lastInitiator != "guide" || svc.lastCause != booking.CauseWeather {
		t.Errorf("cancel called with initiator %q cause %q", svc.lastInitiator, svc.lastCause)
	}
}

func TestUpdateBookingStatusRejectsUnknownStatus(t *testing.T) {
	r := newBookingRouter(&stubBookingService{bk: sampleBooking()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/bookings/bk-1/status", bytes.NewReader([]byte(`{"status":"pending"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdateBookingStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid transition", booking.NewInvalidTransition("cannot confirm"), http.StatusConflict},
		{"premature completion", booking.NewPrematureCompletion("tour not done"), http.StatusConflict},
		{"concurrent change", booking.NewConflict("version changed"), http.StatusConflict},
		{"not found", bookingRepo.ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newBookingRouter(&stubBookingService{err: tc.err})

			payload := []byte(`{"status":"confirmed"}`)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/bookings/bk-1/status", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}
