package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourly/models"
	"tourly/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// stubGateway scripts the gateway outcome per test.
type stubGateway struct {
	p   *models.Payment
	err error
}

func (s *stubGateway) Methods() []models.PaymentMethod {
	return payment.DefaultMethods()
}

func (s *stubGateway) CreatePayment(req models.CreatePaymentRequest) (*models.Payment, error) {
	return s.p, s.err
}

func newPaymentRouter(gw payment.PaymentGateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(gw, nil, zap.NewNop())
	r := gin.New()
	r.GET("/payments/methods", h.ListMethods)
	r.POST("/payments", h.CreatePayment)
	r.POST("/payments/momo/create", h.MomoCreate)
	return r
}

func cardPaymentBody(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(models.CreatePaymentRequest{
		BookingID: "bk-1",
		Method:    "card",
		Amount:    100,
		Currency:  "USD",
		Card: &models.CardDetails{
			Number:     "4111111111111111",
			Expiry:     "12/27",
			CVV:        "123",
			HolderName: "Ada Lovelace",
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return payload
}

func TestListMethods(t *testing.T) {
	r := newPaymentRouter(&stubGateway{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payments/methods", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string][]models.PaymentMethod
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body["methods"]) != 6 {
		t.Errorf("methods = %d, want 6", len(body["methods"]))
	}
}

func TestCreatePaymentCreated(t *testing.T) {
	r := newPaymentRouter(&stubGateway{p: &models.Payment{
		ID:        "pay-1",
		BookingID: "bk-1",
		Status:    models.PaymentSucceeded,
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(cardPaymentBody(t)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
}

func TestCreatePaymentValidationErrors(t *testing.T) {
	r := newPaymentRouter(&stubGateway{err: payment.ValidationErrors{
		{Field: "cardNumber", Reason: "invalid card number"},
		{Field: "currency", Reason: "currency is required"},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(cardPaymentBody(t)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
	var body struct {
		Message string                   `json:"message"`
		Errors  payment.ValidationErrors `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Errors) != 2 {
		t.Errorf("errors = %v, want both field errors", body.Errors)
	}
}

func TestCreatePaymentDeclined(t *testing.T) {
	r := newPaymentRouter(&stubGateway{
		p:   &models.Payment{ID: "pay-1", Status: models.PaymentStatusFailed},
		err: &payment.DeclinedError{Reason: "insufficient funds"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(cardPaymentBody(t)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"payment"`)) {
		t.Errorf("body = %s, want the settled payment included", w.Body.String())
	}
}

func TestCreatePaymentProviderDown(t *testing.T) {
	r := newPaymentRouter(&stubGateway{err: payment.ErrProviderUnavailable})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(cardPaymentBody(t)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503: %s", w.Code, w.Body.String())
	}
}

func TestMomoCreateReturnsRedirect(t *testing.T) {
	r := newPaymentRouter(&stubGateway{p: &models.Payment{
		ID:                    "pay-1",
		BookingID:             "bk-1",
		Status:                models.PaymentPendingConfirmation,
		ProviderTransactionID: "order-123",
		PayURL:                "https://pay.example.com/order-123",
	}})

	payload, _ := json.Marshal(models.MomoCreateRequest{
		BookingID: "bk-1",
		Amount:    100,
		Currency:  "VND",
		Phone:     "0912345678",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/momo/create", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var body models.MomoCreateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.OrderID != "order-123" || body.PayURL == "" {
		t.Errorf("response = %+v, want the redirect order", body)
	}
}
