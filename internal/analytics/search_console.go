package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/anyulbade/agency-platform/internal/auth"
	"github.com/anyulbade/agency-platform/internal/model"
)

const (
	Provider          = "google_search_console"
	DefaultAPIBaseURL = "https://www.googleapis.com"
	scopeWebmasters   = "https://www.googleapis.com/auth/webmasters.readonly"
)

type IntegrationStore interface {
	FindByActor(ctx context.Context, actorID, provider string) (*model.AnalyticsIntegration, error)
	Upsert(ctx context.Context, i *model.AnalyticsIntegration) error
	Delete(ctx context.Context, actorID, provider string) error
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// APIBaseURL and Endpoint override the Google hosts, mainly for tests.
	APIBaseURL string
	Endpoint   oauth2.Endpoint
	HTTPClient *http.Client
}

// HTTPError carries a non-2xx response from the analytics API.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("search console HTTP %d: %s", e.Status, e.Body)
}

func (e *HTTPError) StatusCode() int { return e.Status }

// SearchConsole reads click totals for the current actor's connected
// property. Calls go through a circuit breaker so a failing upstream is not
// hammered on every report request.
type SearchConsole struct {
	oauth      *oauth2.Config
	store      IntegrationStore
	breaker    *gobreaker.CircuitBreaker
	baseURL    string
	httpClient *http.Client
}

func NewSearchConsole(cfg Config, store IntegrationStore) *SearchConsole {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}

	return &SearchConsole{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{scopeWebmasters},
			Endpoint:     endpoint,
		},
		store: store,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        Provider,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			},
		}),
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (s *SearchConsole) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token and stores it for actorID.
func (s *SearchConsole) Exchange(ctx context.Context, actorID, code, siteURL string) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	return s.store.Upsert(ctx, &model.AnalyticsIntegration{
		ActorID:      actorID,
		Provider:     Provider,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		SiteURL:      siteURL,
	})
}

// Disconnect drops the current actor's tokens, so later reports are simulated.
func (s *SearchConsole) Disconnect(ctx context.Context) error {
	actor := auth.ActorFromContext(ctx)
	if actor == "" {
		return nil
	}
	return s.store.Delete(ctx, actor, Provider)
}

func (s *SearchConsole) IsConnected(ctx context.Context) (bool, error) {
	actor := auth.ActorFromContext(ctx)
	if actor == "" {
		return false, nil
	}
	integration, err := s.store.FindByActor(ctx, actor, Provider)
	if err != nil {
		return false, err
	}
	return integration != nil, nil
}

type queryRequest struct {
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Dimensions []string `json:"dimensions"`
}

type queryResponse struct {
	Rows []struct {
		Keys   []string `json:"keys"`
		Clicks float64  `json:"clicks"`
	} `json:"rows"`
}

func (s *SearchConsole) FetchPerformance(ctx context.Context, domain string, start, end time.Time) (*model.AnalyticsPerformance, error) {
	actor := auth.ActorFromContext(ctx)
	if actor == "" {
		return nil, fmt.Errorf("no actor in context")
	}
	integration, err := s.store.FindByActor(ctx, actor, Provider)
	if err != nil {
		return nil, err
	}
	if integration == nil {
		return nil, fmt.Errorf("analytics not connected for actor %s", actor)
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.query(ctx, integration, domain, start, end)
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.AnalyticsPerformance), nil
}

func (s *SearchConsole) query(ctx context.Context, integration *model.AnalyticsIntegration, domain string, start, end time.Time) (*model.AnalyticsPerformance, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	ts := s.oauth.TokenSource(ctx, &oauth2.Token{
		AccessToken:  integration.AccessToken,
		RefreshToken: integration.RefreshToken,
		TokenType:    integration.TokenType,
		Expiry:       integration.Expiry,
	})
	client := oauth2.NewClient(ctx, ts)

	site := integration.SiteURL
	if site == "" {
		site = "sc-domain:" + domain
	}
	endpoint := fmt.Sprintf("%s/webmasters/v3/sites/%s/searchAnalytics/query", s.baseURL, url.PathEscape(site))

	body, err := json.Marshal(queryRequest{
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.Format("2006-01-02"),
		Dimensions: []string{"date"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var parsed queryResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	s.saveRefreshedToken(ctx, integration, ts)

	clicks := make([]float64, len(parsed.Rows))
	for i, row := range parsed.Rows {
		clicks[i] = row.Clicks
	}
	return Summarize(clicks), nil
}

func (s *SearchConsole) saveRefreshedToken(ctx context.Context, integration *model.AnalyticsIntegration, ts oauth2.TokenSource) {
	tok, err := ts.Token()
	if err != nil || tok.AccessToken == integration.AccessToken {
		return
	}
	refreshed := *integration
	refreshed.AccessToken = tok.AccessToken
	refreshed.Expiry = tok.Expiry
	if tok.RefreshToken != "" {
		refreshed.RefreshToken = tok.RefreshToken
	}
	if err := s.store.Upsert(ctx, &refreshed); err != nil {
		log.Warn().Err(err).Str("actor", integration.ActorID).Msg("failed to persist refreshed token")
	}
}

// Summarize totals daily clicks and derives growth as the percentage change
// of the second half of the window over the first half.
func Summarize(daily []float64) *model.AnalyticsPerformance {
	var total, first, second float64
	half := len(daily) / 2
	for i, c := range daily {
		total += c
		if i < half {
			first += c
		} else if i >= len(daily)-half {
			second += c
		}
	}

	growth := 0.0
	if first > 0 {
		growth = math.Round((second-first)/first*1000) / 10
	}
	return &model.AnalyticsPerformance{
		Clicks: int64(math.Round(total)),
		Growth: growth,
	}
}
