package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	polyline "github.com/twpayne/go-polyline"
)

func encodedLine(coords [][]float64) string {
	return string(polyline.EncodeCoords(coords))
}

func activityJSON(sport, date, line string, distance float64) map[string]any {
	return map[string]any{
		"type":             sport,
		"start_date_local": date,
		"distance":         distance,
		"map":              map[string]any{"summary_polyline": line},
	}
}

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		BaseURL:      srv.URL,
		HTTPClient:   srv.Client(),
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost/callback",
	}
}

func TestFetchActivitiesDecodesAndFilters(t *testing.T) {
	line := encodedLine([][]float64{{48.8566, 2.3522}, {48.8576, 2.3532}})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/athlete/activities", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		switch r.URL.Query().Get("page") {
		case "1":
			json.NewEncoder(w).Encode([]map[string]any{
				activityJSON("Run", "2023-05-10T08:00:00Z", line, 5000),
				activityJSON("WeightTraining", "2023-05-11T08:00:00Z", line, 0), // not a GPS sport
				activityJSON("Ride", "2023-05-12T08:00:00Z", "", 20000),         // no polyline
			})
		default:
			fmt.Fprint(w, "[]")
		}
	}))
	defer srv.Close()

	tracks, truncated := newTestClient(srv).FetchActivities(context.Background(), "tok")

	require.Len(t, tracks, 1)
	assert.False(t, truncated)
	assert.Equal(t, "Run", tracks[0].Sport)
	assert.Equal(t, "2023-05-10T08:00:00Z", tracks[0].StartDateLocal)
	assert.Equal(t, 5000.0, tracks[0].DistanceMeters)
	require.Len(t, tracks[0].Points, 2)
	assert.InDelta(t, 48.8566, tracks[0].Points[0].Lat, 1e-5)
	assert.InDelta(t, 2.3522, tracks[0].Points[0].Lon, 1e-5)
}

func TestFetchActivitiesPartialOnUpstreamError(t *testing.T) {
	line := encodedLine([][]float64{{48.8566, 2.3522}, {48.8576, 2.3532}})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			json.NewEncoder(w).Encode([]map[string]any{
				activityJSON("Run", "2023-05-10T08:00:00Z", line, 5000),
			})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tracks, truncated := newTestClient(srv).FetchActivities(context.Background(), "tok")

	assert.Len(t, tracks, 1, "first page must survive a later failure")
	assert.False(t, truncated)
}

func TestFetchActivitiesPageCapTruncates(t *testing.T) {
	line := encodedLine([][]float64{{48.8566, 2.3522}, {48.8576, 2.3532}})
	pages := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		json.NewEncoder(w).Encode([]map[string]any{
			activityJSON("Run", "2023-05-10T08:00:00Z", line, 5000),
		})
	}))
	defer srv.Close()

	tracks, truncated := newTestClient(srv).FetchActivities(context.Background(), "tok")

	assert.Equal(t, maxPages, pages, "pagination must stop at the cap")
	assert.Len(t, tracks, maxPages)
	assert.True(t, truncated)
}

func TestFetchActivitiesSkipsBadPolyline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			json.NewEncoder(w).Encode([]map[string]any{
				activityJSON("Run", "2023-05-10T08:00:00Z", "\x80", 5000),
			})
			return
		}
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	tracks, _ := newTestClient(srv).FetchActivities(context.Background(), "tok")

	assert.Empty(t, tracks)
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/token", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "thecode", r.PostForm.Get("code"))

		json.NewEncoder(w).Encode(map[string]string{"access_token": "granted"})
	}))
	defer srv.Close()

	token, err := newTestClient(srv).ExchangeCode(context.Background(), "thecode")
	require.NoError(t, err)
	assert.Equal(t, "granted", token)
}

func TestExchangeCodeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).ExchangeCode(context.Background(), "bad")
	assert.Error(t, err)
}

func TestSportLabels(t *testing.T) {
	assert.Equal(t, "Course à pied", SportLabel("Run"))
	assert.Equal(t, "Mystery", SportLabel("Mystery"), "unknown codes fall back to themselves")
	assert.True(t, IsGPSSport("Hike"))
	assert.False(t, IsGPSSport("WeightTraining"))
}
