// Package strava talks to the Strava OAuth endpoints and REST API v3.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/schema"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	// Scope grants read access to private activities too.
	Scope = "read,activity:read_all"

	// state is echoed back by the provider; the listener accepts exactly one request anyway.
	state = "hrzones"

	maxPerPage      = 200
	maxErrorBodyLen = 512
)

// Config holds the OAuth application and endpoint settings.
type Config struct {
	ClientID     string
	ClientSecret string
	APIURL       string
	AuthURL      string
	TokenURL     string
	HTTPClient   *http.Client // optional, used for both token exchange and API calls
}

// Authenticator implements contract.Authenticator against Strava.
type Authenticator struct {
	oauth      oauth2.Config
	apiURL     string
	httpClient *http.Client
}

var _ contract.Authenticator = &Authenticator{}

// NewAuthenticator creates an Authenticator from cfg.
func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{Scope},
		},
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		httpClient: cfg.HTTPClient,
	}
}

// AuthorizationURL returns the consent page URL that redirects to redirectURL.
func (a *Authenticator) AuthorizationURL(redirectURL string) string {
	a.oauth.RedirectURL = redirectURL
	return a.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "auto"))
}

// Exchange trades the code for a token and returns an API client using it.
// The token itself is never logged.
func (a *Authenticator) Exchange(ctx context.Context, code string) (contract.ActivityClient, error) {
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}
	tok, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	contract.Logger().Info("Authorized athlete",
		zap.Int64("athlete", athleteID(tok)),
		zap.Time("expiry", tok.Expiry))
	return NewAPIClient(a.oauth.Client(ctx, tok), a.apiURL), nil
}

// athleteID extracts the athlete summary Strava attaches to the token response.
func athleteID(tok *oauth2.Token) int64 {
	athlete, ok := tok.Extra("athlete").(map[string]any)
	if !ok {
		return 0
	}
	switch id := athlete["id"].(type) {
	case float64:
		return int64(id)
	case json.Number:
		v, _ := id.Int64()
		return v
	default:
		return 0
	}
}

// APIClient implements contract.ActivityClient over an authenticated HTTP client.
type APIClient struct {
	http   *http.Client
	apiURL string
}

var _ contract.ActivityClient = &APIClient{}

// NewAPIClient wraps an HTTP client that already carries credentials.
func NewAPIClient(httpClient *http.Client, apiURL string) *APIClient {
	return &APIClient{http: httpClient, apiURL: strings.TrimSuffix(apiURL, "/")}
}

type activityJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	SportType string    `json:"sport_type"`
	StartDate time.Time `json:"start_date"`
}

type streamJSON struct {
	Data         []float64 `json:"data"`
	SeriesType   string    `json:"series_type"`
	OriginalSize int       `json:"original_size"`
	Resolution   string    `json:"resolution"`
}

// ListActivities pages through /athlete/activities until limit activities are
// collected or the service runs out. It never returns more than limit.
func (c *APIClient) ListActivities(ctx context.Context, limit int) ([]schema.Activity, error) {
	perPage := min(limit, maxPerPage)
	var out []schema.Activity
	for page := 1; len(out) < limit; page++ {
		q := url.Values{}
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))

		var batch []activityJSON
		if err := c.getJSON(ctx, "/athlete/activities", q, &batch); err != nil {
			return nil, err
		}
		for _, a := range batch {
			typ := a.SportType
			if typ == "" {
				typ = a.Type
			}
			out = append(out, schema.Activity{ID: a.ID, Name: a.Name, Type: typ, StartDate: a.StartDate})
		}
		if len(batch) < perPage {
			break
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetStreams fetches the requested streams keyed by type. Streams the activity
// does not have are simply absent from the result.
func (c *APIClient) GetStreams(ctx context.Context, activityID int64, types []schema.StreamType) (schema.StreamSet, error) {
	keys := make([]string, 0, len(types))
	for _, t := range types {
		keys = append(keys, string(t))
	}
	q := url.Values{}
	q.Set("keys", strings.Join(keys, ","))
	q.Set("key_by_type", "true")
	q.Set("series_type", "time")

	var raw map[string]streamJSON
	if err := c.getJSON(ctx, "/activities/"+strconv.FormatInt(activityID, 10)+"/streams", q, &raw); err != nil {
		return nil, err
	}
	streams := make(schema.StreamSet, len(types))
	for _, t := range types {
		if s, ok := raw[string(t)]; ok {
			data := s.Data
			if data == nil {
				data = []float64{}
			}
			streams[t] = data
		}
	}
	return streams, nil
}

func (c *APIClient) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	endpoint := c.apiURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return fmt.Errorf("request to %s returned %s: %s", path, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
