package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"tourly/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MomoProvider drives the MoMo wallet's redirect flow: an order is created
// remotely, the client is sent to the returned payUrl, and the final outcome
// is resolved later by querying the order.
type MomoProvider struct {
	Endpoint    string
	PartnerCode string
	AccessKey   string
	SecretKey   string
	ReturnURL   string
	Client      *http.Client
	Logger      *zap.Logger
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	OrderID     string `json:"orderId"`
	Amount      int64  `json:"amount"`
	OrderInfo   string `json:"orderInfo"`
	ReturnURL   string `json:"redirectUrl"`
	NotifyURL   string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
}

type momoCreateResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
}

type momoQueryRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	OrderID     string `json:"orderId"`
	Signature   string `json:"signature"`
}

type momoQueryResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	TransID    int64  `json:"transId"`
}

func (m *MomoProvider) Capture(ctx context.Context, p *models.Payment, card *models.CardDetails) (*CaptureResult, error) {
	return nil, ErrUnknownMethod
}

func (m *MomoProvider) CreateOrder(ctx context.Context, p *models.Payment) (*RedirectOrder, error) {
	orderID := fmt.Sprintf("%s-%s", p.BookingID, uuid.New().String()[:8])
	req := momoCreateRequest{
		PartnerCode: m.PartnerCode,
		RequestID:   uuid.New().String(),
		OrderID:     orderID,
		Amount:      toMinorUnits(p.Amount + p.FeeAmount),
		OrderInfo:   "Tour booking " + p.BookingID,
		ReturnURL:   m.ReturnURL,
		NotifyURL:   m.ReturnURL,
		RequestType: "captureWallet",
	}
	req.Signature = m.sign(fmt.Sprintf("accessKey=%s&amount=%d&orderId=%s&partnerCode=%s&requestId=%s",
		m.AccessKey, req.Amount, req.OrderID, req.PartnerCode, req.RequestID))

	var resp momoCreateResponse
	if err := m.post(ctx, "/v2/gateway/api/create", req, &resp); err != nil {
		return nil, err
	}
	if resp.ResultCode != 0 {
		return nil, &DeclinedError{Reason: resp.Message}
	}
	return &RedirectOrder{OrderID: orderID, PayURL: resp.PayURL}, nil
}

func (m *MomoProvider) QueryOrder(ctx context.Context, orderID string) (OrderStatus, error) {
	req := momoQueryRequest{
		PartnerCode: m.PartnerCode,
		RequestID:   uuid.New().String(),
		OrderID:     orderID,
	}
	req.Signature = m.sign(fmt.Sprintf("accessKey=%s&orderId=%s&partnerCode=%s&requestId=%s",
		m.AccessKey, req.OrderID, req.PartnerCode, req.RequestID))

	var resp momoQueryResponse
	if err := m.post(ctx, "/v2/gateway/api/query", req, &resp); err != nil {
		return OrderPending, err
	}

	// MoMo result codes: 0 success, 1000 awaiting user action, everything
	// else is a terminal failure.
	switch resp.ResultCode {
	case 0:
		return OrderPaid, nil
	case 1000:
		return OrderPending, nil
	default:
		return OrderFailed, nil
	}
}

func (m *MomoProvider) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal momo request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build momo request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := m.Client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return ErrProviderTimeout
		}
		m.Logger.Warn("momo request failed", zap.Error(err))
		return ErrProviderUnavailable
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 500 {
		return ErrProviderUnavailable
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode momo response: %w", err)
	}
	return nil
}

func (m *MomoProvider) sign(raw string) string {
	mac := hmac.New(sha256.New, []byte(m.SecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
