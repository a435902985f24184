// Package client is the HTTP client for the invoice persistence API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/invoice-manager/models"
)

// Gateway call failures, distinguishable with errors.Is. All of them wrap
// ErrGateway so callers that only want a single generic failure notice can
// match on that alone.
var (
	ErrGateway     = errors.New("gateway request failed")
	ErrNotFound    = fmt.Errorf("%w: not found", ErrGateway)
	ErrValidation  = fmt.Errorf("%w: rejected by validation", ErrGateway)
	ErrUnavailable = fmt.Errorf("%w: unavailable", ErrGateway)
)

// Client talks to the invoice API. The zero http.Client is usable; callers
// wanting timeouts configure their own.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

type invoiceEnvelope struct {
	Invoice models.Invoice `json:"invoice"`
}

type invoicesEnvelope struct {
	Invoices []models.Invoice `json:"invoices"`
}

// GetAll fetches every invoice.
func (c *Client) GetAll(ctx context.Context) ([]models.Invoice, error) {
	var env invoicesEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/invoices", nil, &env); err != nil {
		return nil, err
	}
	return env.Invoices, nil
}

// GetByID fetches one invoice with its line items.
func (c *Client) GetByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var env invoiceEnvelope
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/invoices/%d", id), nil, &env); err != nil {
		return nil, err
	}
	return &env.Invoice, nil
}

// Create stores a new invoice and returns the canonical record with its
// assigned identifier and timestamps.
func (c *Client) Create(ctx context.Context, inv models.Invoice) (*models.Invoice, error) {
	var env invoiceEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/invoices", inv, &env); err != nil {
		return nil, err
	}
	return &env.Invoice, nil
}

// Update replaces an existing invoice and returns the canonical record.
func (c *Client) Update(ctx context.Context, id uint, inv models.Invoice) (*models.Invoice, error) {
	var env invoiceEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/invoices/%d", id), inv, &env); err != nil {
		return nil, err
	}
	return &env.Invoice, nil
}

// Delete removes an invoice.
func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/invoices/%d", id), nil, nil)
}

// DownloadPDF fetches the rendered PDF and writes it to dir as
// invoice_{invoiceNumber}.pdf, returning the written path.
func (c *Client) DownloadPDF(ctx context.Context, id uint, invoiceNumber, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/invoices/%d/pdf", c.BaseURL, id), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("invoice_%s.pdf", invoiceNumber))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return path, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrGateway, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := readErrorDetail(resp.Body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return wrapDetail(ErrNotFound, detail)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return wrapDetail(ErrValidation, detail)
	case resp.StatusCode >= 500:
		return wrapDetail(ErrUnavailable, detail)
	default:
		return wrapDetail(ErrGateway, fmt.Sprintf("status %d", resp.StatusCode))
	}
}

func readErrorDetail(body io.Reader) string {
	var payload struct {
		Error  string   `json:"error"`
		Errors []string `json:"errors"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	if len(payload.Errors) > 0 {
		return strings.Join(payload.Errors, "; ")
	}
	return payload.Error
}

func wrapDetail(sentinel error, detail string) error {
	if detail == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, detail)
}
