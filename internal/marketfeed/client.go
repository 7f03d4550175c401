// Package marketfeed fetches market lines from the external odds
// collaborator.
package marketfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/models"
	"golang.org/x/time/rate"
)

// Client is a rate-limited, retrying HTTP client for the market-line feed.
type Client struct {
	http    *retryablehttp.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	log     *logrus.Entry
}

// NewClient creates a market feed client.
func NewClient(cfg config.MarketFeedConfig, log *logrus.Logger) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = cfg.RetryMax
	httpClient.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpClient.Logger = nil

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		log:     log.WithField("component", "marketfeed"),
	}
}

type lineResponse struct {
	HomeTeam      string  `json:"home_team"`
	AwayTeam      string  `json:"away_team"`
	GameDate      string  `json:"game_date"`
	HomeMoneyline int     `json:"home_moneyline"`
	AwayMoneyline int     `json:"away_moneyline"`
	Spread        float64 `json:"spread"`
	Bookmaker     string  `json:"bookmaker"`
}

// FetchLine retrieves the current market line for a matchup. Returns
// ErrNotFound when the feed has no line for it.
func (c *Client) FetchLine(ctx context.Context, home, away string, date time.Time) (*models.MarketLine, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/lines?%s", c.baseURL, url.Values{
		"home": {home},
		"away": {away},
		"date": {date.Format("2006-01-02")},
	}.Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build market feed request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market feed returned status %d", resp.StatusCode)
	}

	var body lineResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode market feed response: %w", err)
	}

	line := &models.MarketLine{
		HomeTeam:      body.HomeTeam,
		AwayTeam:      body.AwayTeam,
		GameDate:      date,
		HomeMoneyline: body.HomeMoneyline,
		AwayMoneyline: body.AwayMoneyline,
		Spread:        body.Spread,
		Bookmaker:     body.Bookmaker,
		FetchedAt:     time.Now().UTC(),
	}

	c.log.WithFields(logrus.Fields{
		"home_team": home,
		"away_team": away,
		"bookmaker": line.Bookmaker,
	}).Debug("Fetched market line")

	return line, nil
}
