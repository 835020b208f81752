// Package roomdir looks rooms up in the external room-management service.
package roomdir

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"room-booking/internal/domain/reservation"
)

// Client answers GET {baseURL}/rooms/{id}: 2xx means the room exists, 404 means it does not.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) RoomExists(ctx context.Context, roomID reservation.RoomID) (bool, error) {
	const op = "roomdir.RoomExists"

	url := fmt.Sprintf("%s/rooms/%d", c.baseURL, roomID.Int64())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}
}
