// Package payment is the client for the state bill gateway that settles
// booking fines.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/infrastructure/config"
)

// PayStatusPaid is the gateway's status for a settled bill
const PayStatusPaid = "Paid"

var (
	ErrMissingReference = errors.New("bill reference is required")
	ErrGatewayConfig    = errors.New("bill gateway base URL is required")
)

// Bill is the gateway's view of a booking bill
type Bill struct {
	BillReference string  `json:"billReference"`
	PayStatus     string  `json:"payStatus"`
	Amount        float64 `json:"amount,omitempty"`
	Payer         string  `json:"payerName,omitempty"`
}

// Paid reports whether the bill has been settled
func (b *Bill) Paid() bool {
	return strings.EqualFold(b.PayStatus, PayStatusPaid)
}

// GatewayError carries a non-2xx gateway response
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("bill gateway returned %d: %s", e.StatusCode, e.Body)
}

// BillGateway queries bill status over HTTP
type BillGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// NewBillGateway creates a gateway client from cfg
func NewBillGateway(cfg config.PaymentConfig) (*BillGateway, error) {
	if cfg.GatewayURL == "" {
		return nil, ErrGatewayConfig
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BillGateway{
		baseURL:    strings.TrimRight(cfg.GatewayURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}, nil
}

// GetBill fetches the bill for reference
func (g *BillGateway) GetBill(ctx context.Context, reference string) (*Bill, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, ErrMissingReference
	}

	q := url.Values{}
	q.Set("billReference", reference)
	// cache buster; some gateway edges cache GETs
	q.Set("t", strconv.FormatInt(g.now().UnixMilli(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/get-bill?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build bill request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bill gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read bill response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var bill Bill
	if err := json.Unmarshal(body, &bill); err != nil {
		return nil, fmt.Errorf("failed to decode bill response: %w", err)
	}
	if bill.BillReference == "" {
		bill.BillReference = reference
	}
	return &bill, nil
}

// IsPaid reports whether the bill for reference is settled
func (g *BillGateway) IsPaid(ctx context.Context, reference string) (bool, error) {
	bill, err := g.GetBill(ctx, reference)
	if err != nil {
		return false, err
	}
	return bill.Paid(), nil
}
