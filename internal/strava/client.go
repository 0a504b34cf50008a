package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	polyline "github.com/twpayne/go-polyline"

	"github.com/theophile-senechal/unlock-app/internal/metrics"
	"github.com/theophile-senechal/unlock-app/internal/models"
	"github.com/theophile-senechal/unlock-app/internal/spatial"
)

const (
	// DefaultBaseURL is the production Strava API host
	DefaultBaseURL = "https://www.strava.com"

	perPage = 200
	// maxPages caps pagination: a deliberate truncation, not an error
	maxPages = 10
)

// SportTranslations maps provider sport codes to display labels. Codes present
// here are the GPS sports the territory model considers.
var SportTranslations = map[string]string{
	"Run": "Course à pied", "Ride": "Vélo", "Hike": "Randonnée", "Walk": "Marche",
	"AlpineSki": "Ski Alpin", "BackcountrySki": "Ski de Rando", "VirtualRide": "Vélo Virtuel",
	"VirtualRun": "Course Virtuelle", "GravelRide": "Gravel", "TrailRun": "Trail",
	"E-BikeRide": "Vélo Électrique", "Velomobile": "Vélomobile", "NordicSki": "Ski de Fond",
	"Snowshoe": "Raquettes",
}

// SportLabel returns the display label for a sport code, or the code itself
func SportLabel(code string) string {
	if label, ok := SportTranslations[code]; ok {
		return label
	}
	return code
}

// IsGPSSport reports whether activities of this sport carry a usable polyline
func IsGPSSport(code string) bool {
	_, ok := SportTranslations[code]
	return ok
}

// Client talks to the Strava API. Zero-value fields fall back to defaults,
// which lets tests point it at a local server.
type Client struct {
	BaseURL      string
	HTTPClient   *http.Client
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// NewClient creates a Strava client with the default host and a 10s timeout
func NewClient(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		BaseURL:      DefaultBaseURL,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
	}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// AuthorizeURL is where the browser is sent to grant activity access
func (c *Client) AuthorizeURL() string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("approval_prompt", "auto")
	q.Set("scope", "activity:read_all")
	return c.baseURL() + "/oauth/authorize?" + q.Encode()
}

// ExchangeCode trades an OAuth authorization code for an access token
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}

	return payload.AccessToken, nil
}

type apiActivity struct {
	Type           string  `json:"type"`
	StartDateLocal string  `json:"start_date_local"`
	Distance       float64 `json:"distance"`
	Map            struct {
		SummaryPolyline string `json:"summary_polyline"`
	} `json:"map"`
}

// FetchActivities pulls the athlete's full activity history, page by page, and
// keeps GPS-sport activities with a decodable polyline. Upstream errors end
// pagination and whatever was accumulated is returned: a degraded dataset is
// preferable to failing the whole request. The second return value reports
// whether the page cap cut the history short.
func (c *Client) FetchActivities(ctx context.Context, token string) ([]models.Track, bool) {
	var raw []apiActivity
	truncated := false

	for page := 1; ; page++ {
		if page > maxPages {
			truncated = true
			break
		}

		batch, err := c.fetchPage(ctx, token, page)
		if err != nil {
			log.Printf("[Strava] Page %d fetch failed, returning partial history: %v", page, err)
			break
		}
		if len(batch) == 0 {
			break
		}
		raw = append(raw, batch...)
	}

	tracks := make([]models.Track, 0, len(raw))
	for _, act := range raw {
		if !IsGPSSport(act.Type) || act.Map.SummaryPolyline == "" {
			continue
		}

		coords, _, err := polyline.DecodeCoords([]byte(act.Map.SummaryPolyline))
		if err != nil {
			log.Printf("[Strava] Skipping activity %s with undecodable polyline: %v", act.StartDateLocal, err)
			continue
		}

		points := make([]spatial.Point, 0, len(coords))
		for _, c := range coords {
			points = append(points, spatial.Point{Lat: c[0], Lon: c[1]})
		}

		tracks = append(tracks, models.Track{
			Sport:          act.Type,
			StartDateLocal: act.StartDateLocal,
			DistanceMeters: act.Distance,
			Points:         points,
		})
	}

	metrics.TracksFetched.Add(float64(len(tracks)))
	return tracks, truncated
}

func (c *Client) fetchPage(ctx context.Context, token string, page int) ([]apiActivity, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/api/v3/athlete/activities?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build activities request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("activities request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("activities request returned status %d", resp.StatusCode)
	}

	var batch []apiActivity
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("failed to decode activities page: %w", err)
	}

	return batch, nil
}
