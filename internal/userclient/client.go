// Package userclient is the order service's synchronous view of the user
// service. It answers one question per call and performs no retries; callers
// own whatever retry policy they want.
package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrUnavailable = errors.New("user service unavailable")
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Client struct {
	base string
	http *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Get fetches a user by id. A remote 404 maps to ErrNotFound; any other
// failure, including timeouts and non-200 statuses, maps to ErrUnavailable.
func (c *Client) Get(ctx context.Context, id string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/users/"+url.PathEscape(id), nil)
	if err != nil {
		return User{}, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return User{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return User{}, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return User{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return u, nil
}
