package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobfinder-backend/internal/jobsearch"
)

// DefaultBaseURL targets the Apify platform API.
const DefaultBaseURL = "https://api.apify.com"

// ErrMissingToken is returned when no Apify API token is configured.
var ErrMissingToken = errors.New("APIFY_API_TOKEN is required")

// HTTPError wraps a non-2xx actor response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("apify http status %d: %s", e.StatusCode, e.Body)
}

// Client implements jobsearch.Searcher by running an Apify scraper actor
// synchronously and reading its default dataset items.
type Client struct {
	baseURL    string
	token      string
	actorID    string
	httpClient *http.Client
}

// NewClient constructs an Apify client for the given actor.
func NewClient(baseURL, token, actorID string, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if strings.TrimSpace(actorID) == "" {
		return nil, fmt.Errorf("apify actor id is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		actorID:    actorID,
		httpClient: httpClient,
	}, nil
}

// runInput mirrors the actor's expected run input.
type runInput struct {
	Title    string     `json:"title"`
	Location string     `json:"location"`
	Rows     int        `json:"rows"`
	Proxy    proxyInput `json:"proxy"`
}

type proxyInput struct {
	UseApifyProxy    bool     `json:"useApifyProxy"`
	ApifyProxyGroups []string `json:"apifyProxyGroups"`
}

// apifyJob carries the field-name variants observed across actor versions.
type apifyJob struct {
	Title        string `json:"title"`
	PositionName string `json:"positionName"`
	CompanyName  string `json:"companyName"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	JobURL       string `json:"jobUrl"`
	Link         string `json:"link"`
}

// Search runs the actor synchronously and normalizes each returned record.
// An empty term short-circuits to an empty result without any network call.
func (c *Client) Search(ctx context.Context, term, location string, maxResults int) ([]jobsearch.Listing, error) {
	if strings.TrimSpace(term) == "" {
		return []jobsearch.Listing{}, nil
	}

	input := runInput{
		Title:    term,
		Location: location,
		Rows:     maxResults,
		Proxy: proxyInput{
			UseApifyProxy:    true,
			ApifyProxyGroups: []string{"RESIDENTIAL"},
		},
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, url.PathEscape(c.actorID), url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("apify run %s: %w", c.actorID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apify run %s: %w", c.actorID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var items []apifyJob
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("apify run %s: decode items: %w", c.actorID, err)
	}

	listings := make([]jobsearch.Listing, 0, len(items))
	for _, item := range items {
		listings = append(listings, jobsearch.Listing{
			Title:       coalesce(item.Title, item.PositionName),
			CompanyName: coalesce(item.CompanyName, item.Company),
			Location:    coalesce(item.Location),
			Link:        coalesce(item.JobURL, item.Link),
		})
	}
	return listings, nil
}

// coalesce returns a pointer to the first non-empty trimmed value, nil when
// every candidate is empty.
func coalesce(values ...string) *string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return &trimmed
		}
	}
	return nil
}

var _ jobsearch.Searcher = (*Client)(nil)
