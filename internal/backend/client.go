// Package backend is the HTTP client for the order-management REST API. Every
// screen funnels its single network call per user gesture through here, and
// every failure is classified into one of two disjoint classes: an
// application-level rejection carrying the server's message, or a
// transport-level failure carrying only the generic connection message.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/viannadoces/doceria-web/pkg/config"
	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
)

const userIDHeader = "X-User-Id"

// Client calls the order-management API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the API client from configuration.
func NewClient(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Register submits a new account and returns the confirmation message.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": email, "password": password}, &result)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}

// Login exchanges credentials for the session identifier.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": email, "password": password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListOrders fetches every order visible to the session.
func (c *Client) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	var orders []Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/pedidos", userID, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder posts the collected form fields as a new order. Fields are
// passed through generically; the backend validates and coerces them.
func (c *Client) CreateOrder(ctx context.Context, userID string, fields map[string]any) (*CreateOrderResult, error) {
	var result CreateOrderResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/pedidos", userID, fields, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetOrder fetches one full order record.
func (c *Client) GetOrder(ctx context.Context, userID, orderID string) (*Order, error) {
	var order Order
	path := "/api/pedidos/" + url.PathEscape(orderID)
	if err := c.doJSON(ctx, http.MethodGet, path, userID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder sends a partial or full field update for one order and returns
// the server's message.
func (c *Client) UpdateOrder(ctx context.Context, userID, orderID string, fields map[string]any) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	path := "/api/pedidos/" + url.PathEscape(orderID)
	if err := c.doJSON(ctx, http.MethodPut, path, userID, fields, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

// DeleteOrder removes one order and returns the server's message.
func (c *Client) DeleteOrder(ctx context.Context, userID, orderID string) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	path := "/api/pedidos/" + url.PathEscape(orderID)
	if err := c.doJSON(ctx, http.MethodDelete, path, userID, nil, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

// UploadContract sends the selected file as multipart form content to the
// extraction endpoint.
func (c *Client) UploadContract(ctx context.Context, userID, filename string, file io.Reader) (*ContractExtraction, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload form")
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "copy upload content")
	}
	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finish upload form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/contracts/upload", body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(userIDHeader, userID)

	var result ContractExtraction
	if err := c.send(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Download is a binary document stream passed through to the browser.
// Callers own Body and must close it.
type Download struct {
	ContentType string
	Filename    string
	Body        io.ReadCloser
}

// DeliveryReport streams the generated delivery receipt for one order.
func (c *Client) DeliveryReport(ctx context.Context, userID, orderID string) (*Download, error) {
	path := "/api/reports/generate-delivery-report/" + url.PathEscape(orderID)
	return c.download(ctx, http.MethodGet, path, userID, nil)
}

// ExportOrders streams a spreadsheet of the selected orders.
func (c *Client) ExportOrders(ctx context.Context, userID string, orderIDs []int64) (*Download, error) {
	payload := map[string]any{"pedido_ids": orderIDs}
	return c.download(ctx, http.MethodPost, "/api/reports/export-selected-pedidos", userID, payload)
}

// ReportSummary fetches the aggregate report indicators and series.
func (c *Client) ReportSummary(ctx context.Context, userID string) (*ReportSummary, error) {
	var summary ReportSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/reports", userID, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, userID string, payload, dest any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	return c.send(req, dest)
}

func (c *Client) send(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeBackendUnreachable, err,
			fmt.Sprintf("%s %s", req.Method, req.URL.Path))
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return rejectionError(resp)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		// A success status with an undecodable body is a transport-class
		// failure, not a server rejection.
		return pkgerrors.Wrap(pkgerrors.CodeBackendUnreachable, err,
			fmt.Sprintf("decode %s %s response", req.Method, req.URL.Path))
	}
	return nil
}

func (c *Client) download(ctx context.Context, method, path, userID string, payload any) (*Download, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(userIDHeader, userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeBackendUnreachable, err,
			fmt.Sprintf("%s %s", method, path))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}()
		return nil, rejectionError(resp)
	}

	return &Download{
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition")),
		Body:        resp.Body,
	}, nil
}

// rejectionError turns a non-success response into an application-level
// rejection carrying the server's structured message. A body without a usable
// message still counts as a rejection; the render layer supplies the fallback.
func rejectionError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if readErr == nil {
		json.Unmarshal(raw, &payload)
	}
	message := strings.TrimSpace(payload.Message)
	err := pkgerrors.New(pkgerrors.CodeBackendRejected, message)
	if message == "" {
		err = pkgerrors.Wrap(pkgerrors.CodeBackendRejected,
			fmt.Errorf("status %d, body %q", resp.StatusCode, truncate(string(raw), 200)), "")
	}
	return err
}

func filenameFromDisposition(disposition string) string {
	for _, part := range strings.Split(disposition, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "filename=") {
			return strings.Trim(strings.TrimPrefix(part, "filename="), `"`)
		}
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
