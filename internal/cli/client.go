package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/invoicebuild/invoicebuild/internal/api/dto"
	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/invoicebuild/invoicebuild/internal/httpclient"
	"github.com/invoicebuild/invoicebuild/internal/types"
)

// Client talks to the invoicebuild HTTP API on behalf of one account
type Client struct {
	http    httpclient.Client
	baseURL string
	account string
}

func NewClient(http httpclient.Client, baseURL, account string) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		account: account,
	}
}

func (c *Client) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	var resp dto.InvoiceResponse
	if err := c.do(ctx, http.MethodPost, "/v1/invoices", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetInvoiceSummary(ctx context.Context, id int64) (*dto.InvoiceSummaryResponse, error) {
	var resp dto.InvoiceSummaryResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/invoices/%d", id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MakePayment(ctx context.Context, id int64, req *dto.MakePaymentRequest) (*dto.PaymentResponse, error) {
	headers := map[string]string{}
	if req.IdempotencyKey != "" {
		headers[types.HeaderIdempotencyKey] = req.IdempotencyKey
	}

	var resp dto.PaymentResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/invoices/%d/payments", id), req, headers, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Deposit(ctx context.Context, address string, req *dto.DepositRequest) (*dto.AccountResponse, error) {
	headers := map[string]string{}
	if req.IdempotencyKey != "" {
		headers[types.HeaderIdempotencyKey] = req.IdempotencyKey
	}

	var resp dto.AccountResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/accounts/%s/deposit", address), req, headers, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	req := &httpclient.Request{
		Method:  method,
		URL:     c.baseURL + path,
		Headers: map[string]string{},
	}
	for k, v := range headers {
		req.Headers[k] = v
	}
	if c.account != "" {
		req.Headers[types.HeaderAccount] = c.account
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to encode request").
				Mark(ierr.ErrValidation)
		}
		req.Body = payload
	}

	resp, err := c.http.Send(ctx, req)
	if err != nil {
		return apiError(err)
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return ierr.WithError(err).
			WithHint("The server returned an unexpected response").
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// apiError turns an error response into an error carrying the server message
func apiError(err error) error {
	httpErr, ok := httpclient.IsHTTPError(err)
	if !ok {
		return err
	}

	var env errorEnvelope
	if json.Unmarshal(httpErr.Response, &env) != nil || env.Error.Message == "" {
		return ierr.WithError(err).
			WithHintf("Request failed with status %d", httpErr.StatusCode).
			Mark(ierr.ErrHTTPClient)
	}

	return ierr.NewError(env.Error.Message).
		WithHint(env.Error.Message).
		WithReportableDetails(map[string]any{"status": httpErr.StatusCode}).
		Mark(ierr.ErrHTTPClient)
}
