// Package pra submits sales invoices to the Punjab Revenue Authority
// e-invoicing service (IMS) and returns the fiscal invoice number it assigns.
package pra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// SuccessCode is the response code IMS returns for an accepted invoice.
	SuccessCode = "100"
	// DefaultPCTCode is the tariff code reported for restaurant and hotel lines.
	DefaultPCTCode = "01011000"
	// WalkInCustomer is the buyer name used when none is given.
	WalkInCustomer = "Walk-in Customer"

	InvoiceTypeNew    = 1
	InvoiceTypeCredit = 3

	DefaultProductionURL = "https://ims.pral.com.pk/ims/production/api/Live/PostData"
	DefaultSandboxURL    = "https://ims.pral.com.pk/ims/sandbox/api/Live/PostData"
)

// Amount is a currency value sent as a JSON number with two decimals.
type Amount decimal.Decimal

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).StringFixed(2)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = Amount(d)
	return nil
}

// Decimal returns the amount as a decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.Decimal(a)
}

// Item is one invoice line in IMS format.
type Item struct {
	ItemCode    string  `json:"ItemCode"`
	ItemName    string  `json:"ItemName"`
	PCTCode     string  `json:"PCTCode"`
	Quantity    int     `json:"Quantity"`
	TaxRate     Amount  `json:"TaxRate"`
	SaleValue   Amount  `json:"SaleValue"`
	Discount    Amount  `json:"Discount"`
	FurtherTax  Amount  `json:"FurtherTax"`
	TaxCharged  Amount  `json:"TaxCharged"`
	TotalAmount Amount  `json:"TotalAmount"`
	InvoiceType int     `json:"InvoiceType"`
	RefUSIN     *string `json:"RefUSIN"`
}

// Invoice is the IMS invoice payload.
type Invoice struct {
	InvoiceNumber    string  `json:"InvoiceNumber"`
	POSID            int     `json:"POSID"`
	USIN             string  `json:"USIN"`
	RefUSIN          *string `json:"RefUSIN"`
	DateTime         string  `json:"DateTime"`
	BuyerName        string  `json:"BuyerName"`
	BuyerPNTN        string  `json:"BuyerPNTN"`
	BuyerCNIC        string  `json:"BuyerCNIC"`
	BuyerPhoneNumber string  `json:"BuyerPhoneNumber"`
	TotalSaleValue   Amount  `json:"TotalSaleValue"`
	TotalTaxCharged  Amount  `json:"TotalTaxCharged"`
	Discount         Amount  `json:"Discount"`
	FurtherTax       Amount  `json:"FurtherTax"`
	TotalBillAmount  Amount  `json:"TotalBillAmount"`
	TotalQuantity    int     `json:"TotalQuantity"`
	PaymentMode      int     `json:"PaymentMode"`
	InvoiceType      int     `json:"InvoiceType"`
	Items            []Item  `json:"Items"`
}

// FormatDateTime renders a timestamp the way IMS expects it.
func FormatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// Result is the IMS response body.
type Result struct {
	Code          string          `json:"Code"`
	Response      string          `json:"Response"`
	InvoiceNumber string          `json:"InvoiceNumber"`
	Errors        json.RawMessage `json:"Errors,omitempty"`
}

// RejectedError is returned when IMS answers with a code other than 100.
type RejectedError struct {
	Code     string
	Response string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("PRA rejected invoice (code %s): %s", e.Code, e.Response)
}

// ErrUnavailable wraps transport and decoding failures.
var ErrUnavailable = errors.New("PRA service unavailable")

// Environment selects the IMS endpoint.
type Environment string

const (
	Sandbox    Environment = "sandbox"
	Production Environment = "production"
)

// ParseEnvironment maps the pra_api_type setting; anything but
// "production" uses the sandbox.
func ParseEnvironment(s string) Environment {
	if s == string(Production) {
		return Production
	}
	return Sandbox
}

// Submitter is implemented by Client.
type Submitter interface {
	Submit(ctx context.Context, env Environment, token string, invoice Invoice) (*Result, error)
}

// Client posts invoices to IMS.
type Client struct {
	productionURL string
	sandboxURL    string
	httpClient    *http.Client
}

// NewClient creates a client. Empty URLs fall back to the public IMS endpoints.
func NewClient(productionURL, sandboxURL string, timeout time.Duration) *Client {
	if productionURL == "" {
		productionURL = DefaultProductionURL
	}
	if sandboxURL == "" {
		sandboxURL = DefaultSandboxURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		productionURL: productionURL,
		sandboxURL:    sandboxURL,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// URL returns the endpoint for env.
func (c *Client) URL(env Environment) string {
	if env == Production {
		return c.productionURL
	}
	return c.sandboxURL
}

// Submit posts the invoice. A *RejectedError is returned when IMS refuses it.
func (c *Client) Submit(ctx context.Context, env Environment, token string, invoice Invoice) (*Result, error) {
	body, err := json.Marshal(invoice)
	if err != nil {
		return nil, fmt.Errorf("encode PRA invoice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(env), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create PRA request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Error calling PRA %s: %v", env, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		log.Printf("PRA returned undecodable body (status %d): %s", resp.StatusCode, truncate(raw, 200))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if result.Code != SuccessCode {
		return &result, &RejectedError{Code: result.Code, Response: result.Response}
	}
	return &result, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
