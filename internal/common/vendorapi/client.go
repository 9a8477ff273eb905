package vendorapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	commonhttp "jobboard-workers/internal/common/http"
)

// Client talks to the external vendor-registry API that tracks which
// organizations a company works with. The vendor list feeds the
// target-company context used by company-fit scoring.
type Client struct {
	apiKey     string
	authToken  string
	baseURL    string
	httpClient *commonhttp.Client
}

// Organization is a vendor or peer organization in the registry.
type Organization struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Domain       string `json:"domain,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Relationship string `json:"relationship,omitempty"` // "vendor" or "peer"
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

type listResponse struct {
	Data []Organization `json:"data"`
}

func NewClient(baseURL, apiKey, authToken string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.vendor-registry.io/v2"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		authToken:  authToken,
		baseURL:    baseURL,
		httpClient: commonhttp.NewClient(timeout),
	}
}

// GetCompanyVendors returns the organizations registered as vendors or peers
// of the given company.
func (c *Client) GetCompanyVendors(ctx context.Context, companyID string) ([]Organization, error) {
	endpoint := fmt.Sprintf("%s/companies/%s/vendors", c.baseURL, url.PathEscape(companyID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list vendors (status %d): %s", resp.StatusCode, string(body))
	}

	var result listResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Data, nil
}

// GetOrganization fetches a single organization by registry ID.
func (c *Client) GetOrganization(ctx context.Context, orgID string) (*Organization, error) {
	endpoint := fmt.Sprintf("%s/organizations/%s", c.baseURL, url.PathEscape(orgID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get organization (status %d): %s", resp.StatusCode, string(body))
	}

	var result listResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("organization not found")
	}

	return &result.Data[0], nil
}

// SearchOrganizations looks up organizations by name.
func (c *Client) SearchOrganizations(ctx context.Context, name string) ([]Organization, error) {
	endpoint := fmt.Sprintf("%s/organizations/search?name=%s", c.baseURL, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to search organizations (status %d): %s", resp.StatusCode, string(body))
	}

	var result listResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Data, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
}
