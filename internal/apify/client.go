// Package apify calls the Apify google-maps-scraper actor to discover leads.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/leadflowhq/leadflow/internal/leads"
)

const (
	defaultBaseURL  = "https://api.apify.com"
	defaultActor    = "apify~google-maps-scraper"
	defaultLanguage = "pl"

	// Name used when the upstream record carries no title.
	unknownName = "Nieznana nazwa"
)

// ErrNoToken is returned when no Apify API token is configured.
var ErrNoToken = eris.New("apify: missing API token")

// Client runs a lead search against the Apify platform.
type Client interface {
	CollectLeads(ctx context.Context, query string, maxResults int) ([]leads.Lead, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithActor overrides the actor identifier.
func WithActor(actor string) Option {
	return func(c *httpClient) {
		if actor != "" {
			c.actor = actor
		}
	}
}

// WithLanguage overrides the search language passed to the actor.
func WithLanguage(lang string) Option {
	return func(c *httpClient) {
		if lang != "" {
			c.language = lang
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token    string
	baseURL  string
	actor    string
	language string
	http     *http.Client
}

// NewClient creates an Apify client. An empty token is allowed at construction
// time; the error surfaces on the first call so a misconfigured deployment
// fails individual jobs rather than the whole process.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:    token,
		baseURL:  defaultBaseURL,
		actor:    defaultActor,
		language: defaultLanguage,
		// Actor runs are synchronous and can take a while for large caps.
		http: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type runInput struct {
	SearchStrings []string `json:"searchStrings"`
	MaxItems      int      `json:"maxItems"`
	SearchMode    string   `json:"searchMode"`
	Language      string   `json:"language"`
}

type datasetItem struct {
	Title   string `json:"title"`
	Address string `json:"address"`
	Website string `json:"website"`
	PlaceID string `json:"placeId"`
}

// CollectLeads runs the actor synchronously and maps its dataset items to
// leads. Email and phone stay empty; enrichment fills them later.
func (c *httpClient) CollectLeads(ctx context.Context, query string, maxResults int) ([]leads.Lead, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	body, err := json.Marshal(runInput{
		SearchStrings: []string{query},
		MaxItems:      maxResults,
		SearchMode:    "all",
		Language:      c.language,
	})
	if err != nil {
		return nil, eris.Wrap(err, "apify: marshal run input")
	}

	endpoint := c.baseURL + "/v2/acts/" + url.PathEscape(c.actor) +
		"/run-sync-get-dataset-items?token=" + url.QueryEscape(c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "apify: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "apify: run actor")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apify: read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("apify: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var items []datasetItem
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, eris.Wrap(err, "apify: unmarshal dataset items")
	}

	batch := make([]leads.Lead, 0, len(items))
	for _, item := range items {
		name := item.Title
		if name == "" {
			name = unknownName
		}
		batch = append(batch, leads.Lead{
			Name:    name,
			Address: item.Address,
			Website: item.Website,
			PlaceID: item.PlaceID,
		})
	}
	return batch, nil
}
