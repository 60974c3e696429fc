package apify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectLeads_MapsDatasetItems(t *testing.T) {
	t.Parallel()

	var gotPath, gotToken string
	var gotInput runInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotInput))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"title":"Kawiarnia Pod Ptakami","address":"Nowy Świat 22, Warszawa","website":"https://podptakami.pl","placeId":"abc123"},
			{"address":"bez nazwy 1","website":"","placeId":"def456"}
		]`))
	}))
	defer srv.Close()

	c := NewClient("secret-token", WithBaseURL(srv.URL))
	batch, err := c.CollectLeads(context.Background(), "cafes warsaw", 5)
	require.NoError(t, err)

	assert.Equal(t, "/v2/acts/apify~google-maps-scraper/run-sync-get-dataset-items", gotPath)
	assert.Equal(t, "secret-token", gotToken)
	assert.Equal(t, []string{"cafes warsaw"}, gotInput.SearchStrings)
	assert.Equal(t, 5, gotInput.MaxItems)
	assert.Equal(t, "all", gotInput.SearchMode)
	assert.Equal(t, "pl", gotInput.Language)

	require.Len(t, batch, 2)
	assert.Equal(t, "Kawiarnia Pod Ptakami", batch[0].Name)
	assert.Equal(t, "https://podptakami.pl", batch[0].Website)
	assert.Equal(t, "abc123", batch[0].PlaceID)
	assert.Empty(t, batch[0].Email, "email is only set by enrichment")
	assert.Equal(t, unknownName, batch[1].Name, "missing title falls back to a placeholder")
}

func TestCollectLeads_MissingToken(t *testing.T) {
	t.Parallel()

	c := NewClient("")
	_, err := c.CollectLeads(context.Background(), "anything", 5)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestCollectLeads_UpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"actor exploded"}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("secret-token", WithBaseURL(srv.URL))
	_, err := c.CollectLeads(context.Background(), "cafes", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "actor exploded", "upstream message must be embedded")
}

func TestCollectLeads_EmptyDataset(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient("secret-token", WithBaseURL(srv.URL))
	batch, err := c.CollectLeads(context.Background(), "cafes on the moon", 5)
	require.NoError(t, err)
	assert.Empty(t, batch)
}
