package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	apperrors "github.com/lorrc/ticket-sync/internal/core/errors"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

const (
	// CacheBustParam is appended to every collection read.
	CacheBustParam = "_ts"

	maxErrorBody = 64 << 10
)

// Client talks to the remote ticket API.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	credentials ports.CredentialSource
	now         func() time.Time
	logger      *slog.Logger
}

var _ ports.TicketGateway = (*Client)(nil)

// NewClient creates a client for baseURL. credentials may be nil.
func NewClient(baseURL string, timeout time.Duration, credentials ports.CredentialSource, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse ticket API URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("ticket API URL must be http or https, got %q", baseURL)
	}

	return &Client{
		baseURL:     parsed,
		httpClient:  &http.Client{Timeout: timeout},
		credentials: credentials,
		now:         time.Now,
		logger:      logger.With("component", "ticket_api"),
	}, nil
}

// ListTickets reads the full collection. A body that is not a JSON array is
// treated as an empty collection, and elements that are not ticket objects
// are skipped.
func (c *Client) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	query := url.Values{}
	query.Set(CacheBustParam, strconv.FormatInt(c.now().UnixMilli(), 10))

	body, err := c.do(ctx, http.MethodGet, "/tickets", query, nil)
	if err != nil {
		return nil, err
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		c.logger.WarnContext(ctx, "ticket list is not an array, treating as empty", "error", err)
		return []domain.Ticket{}, nil
	}

	tickets := make([]domain.Ticket, 0, len(elements))
	for i, raw := range elements {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var t domain.Ticket
		if err := json.Unmarshal(raw, &t); err != nil {
			c.logger.WarnContext(ctx, "skipping malformed ticket", "index", i, "error", err)
			continue
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// UpdateTicket sends a PATCH with the status and comment.
func (c *Client) UpdateTicket(ctx context.Context, ticketID int64, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode ticket update: %w", err)
	}

	body, err := c.do(ctx, http.MethodPatch, ticketPath(ticketID), nil, payload)
	if err != nil {
		return nil, err
	}

	var ticket domain.Ticket
	if err := json.Unmarshal(body, &ticket); err != nil {
		return nil, fmt.Errorf("%w: decode updated ticket: %v", apperrors.ErrMalformedResponse, err)
	}
	return &ticket, nil
}

// DeleteTicket sends a DELETE. Any response body is ignored.
func (c *Client) DeleteTicket(ctx context.Context, ticketID int64) error {
	_, err := c.do(ctx, http.MethodDelete, ticketPath(ticketID), nil, nil)
	return err
}

// Ping reports whether the API answers HTTP at all. Any status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+"/", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err)
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	return nil
}

func ticketPath(ticketID int64) string {
	return "/tickets/" + strconv.FormatInt(ticketID, 10)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + path
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.credentials != nil {
		if token, err := c.credentials.BearerToken(); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s %s: %v", apperrors.ErrRemoteUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %v", apperrors.ErrRemoteUnavailable, method, path, err)
	}

	c.logger.DebugContext(ctx, "ticket API call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.RemoteStatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(data),
		}
	}
	return data, nil
}

// errorDetail extracts the API's {"detail": ...} message. Validation errors
// carry a list of objects with a "msg" field.
func errorDetail(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		messages := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				messages = append(messages, item.Msg)
			}
		}
		return strings.Join(messages, "; ")
	}
	return string(envelope.Detail)
}
