// Package platform talks to the membership platform that owns
// identity, access control and payments for every community this app
// is installed into.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Access levels reported by the platform for an experience.
const (
	AccessLevelAdmin    = "admin"
	AccessLevelCustomer = "customer"
)

// Client is a thin REST client for the platform API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client for the given API base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Experience describes an installed app surface and the company
// (community) it belongs to.
type Experience struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"company"`
}

// User is the platform-side identity of a member.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// AccessResult reports whether a user may enter an experience and at
// which level.
type AccessResult struct {
	HasAccess   bool   `json:"has_access"`
	AccessLevel string `json:"access_level"`
}

// RetrieveExperience fetches one experience with its company.
func (c *Client) RetrieveExperience(ctx context.Context, experienceID string) (*Experience, error) {
	var exp Experience
	if err := c.get(ctx, "/experiences/"+experienceID, &exp); err != nil {
		return nil, fmt.Errorf("retrieve experience %s: %w", experienceID, err)
	}
	return &exp, nil
}

// RetrieveUser fetches a platform user by id.
func (c *Client) RetrieveUser(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/"+userID, &user); err != nil {
		return nil, fmt.Errorf("retrieve user %s: %w", userID, err)
	}
	return &user, nil
}

// CheckAccess asks the platform whether the user may enter the
// experience and whether they administer the owning company.
func (c *Client) CheckAccess(ctx context.Context, experienceID, userID string) (*AccessResult, error) {
	var res AccessResult
	path := fmt.Sprintf("/experiences/%s/access/%s", experienceID, userID)
	if err := c.get(ctx, path, &res); err != nil {
		return nil, fmt.Errorf("check access %s for %s: %w", experienceID, userID, err)
	}
	return &res, nil
}

// DisplayName picks the human-facing name for a user.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("platform api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
