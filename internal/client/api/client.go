// Package api is the thin HTTP client the seat agent uses to talk to
// the seatmate server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seatmate/seatmate/internal/model"
)

// ErrServerUnavailable is returned when the server cannot be reached or
// answers with a 5xx status.
var ErrServerUnavailable = errors.New("seat server unavailable")

// Client calls the seatmate HTTP API.
type Client struct {
	baseURL  string
	clientID string
	http     *http.Client
}

// New returns a Client for the given base URL (e.g. http://localhost:8080).
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetClientID sets the identity sent in the X-Client-ID header; the
// server's rate limiter keys throttling on it.
func (c *Client) SetClientID(id string) { c.clientID = id }

// Snapshot fetches the authoritative room snapshot.
func (c *Client) Snapshot(ctx context.Context) (model.RoomSnapshot, error) {
	var snap model.RoomSnapshot
	if err := c.do(ctx, http.MethodGet, "/v1/seats", nil, &snap); err != nil {
		return model.RoomSnapshot{}, err
	}
	return snap, nil
}

// ClaimResult is the server's answer to a claim request.
type ClaimResult struct {
	SeatNumber      int    `json:"seat_number"`
	AlreadyAssigned bool   `json:"already_assigned,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Claim asks the server to assign the lowest free seat for the gender.
func (c *Client) Claim(ctx context.Context, g model.Gender, clientID, studentID string) (ClaimResult, error) {
	body := map[string]string{
		"gender":     string(g),
		"client_id":  clientID,
		"student_id": studentID,
	}
	var res ClaimResult
	if err := c.do(ctx, http.MethodPost, "/v1/seats/claim", body, &res); err != nil {
		return ClaimResult{}, err
	}
	if res.Error != "" {
		return res, errors.New(res.Error)
	}
	return res, nil
}

// ResetMine releases every seat held by the client identity.
func (c *Client) ResetMine(ctx context.Context, clientID string) (int64, error) {
	body := map[string]string{"client_id": clientID}
	var res struct {
		Released int64 `json:"released"`
	}
	if err := c.do(ctx, http.MethodDelete, "/v1/seats/mine", body, &res); err != nil {
		return 0, err
	}
	return res.Released, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-ID", c.clientID)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrServerUnavailable, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
