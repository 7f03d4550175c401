package marketfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/models"
)

func testClient(baseURL string) *Client {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewClient(config.MarketFeedConfig{
		BaseURL:           baseURL,
		APIKey:            "secret",
		TimeoutSeconds:    2,
		RetryMax:          0,
		RequestsPerSecond: 100,
	}, log)
}

func TestFetchLine(t *testing.T) {
	var gotPath string
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotKey = r.Header.Get("X-API-Key")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"home_team":      "KC",
			"away_team":      "BUF",
			"home_moneyline": -135,
			"away_moneyline": 115,
			"spread":         -2.5,
			"bookmaker":      "pinnacle",
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	date := time.Date(2024, 10, 6, 0, 0, 0, 0, time.UTC)

	line, err := client.FetchLine(context.Background(), "KC", "BUF", date)
	require.NoError(t, err)

	assert.Contains(t, gotPath, "home=KC")
	assert.Contains(t, gotPath, "away=BUF")
	assert.Contains(t, gotPath, "date=2024-10-06")
	assert.Equal(t, "secret", gotKey)

	assert.Equal(t, -135, line.HomeMoneyline)
	assert.Equal(t, 115, line.AwayMoneyline)
	assert.Equal(t, "pinnacle", line.Bookmaker)
	assert.Equal(t, date, line.GameDate)
	assert.False(t, line.FetchedAt.IsZero())
}

func TestFetchLineNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchLine(context.Background(),
		"KC", "BUF", time.Now())

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFetchLineClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchLine(context.Background(),
		"KC", "BUF", time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
