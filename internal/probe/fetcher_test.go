package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollyFetcher_FetchReturnsBody(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body>biuro@cafe.pl</body></html>"))
	}))
	defer srv.Close()

	fetcher := NewCollyFetcher(FetcherConfig{UserAgent: "LeadFlowBot/1.0"})
	defer fetcher.Close()

	resp, err := fetcher.Fetch(context.Background(), srv.URL, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "biuro@cafe.pl")
	assert.Equal(t, "LeadFlowBot/1.0", gotUA)
}

func TestCollyFetcher_FollowsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/home", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/home", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("landed"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fetcher := NewCollyFetcher(FetcherConfig{})
	defer fetcher.Close()

	resp, err := fetcher.Fetch(context.Background(), srv.URL, 5*time.Second)
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body), "landed")
}

func TestCollyFetcher_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		_, _ = w.Write([]byte("too late"))
	}))
	defer srv.Close()

	fetcher := NewCollyFetcher(FetcherConfig{})
	defer fetcher.Close()

	_, err := fetcher.Fetch(context.Background(), srv.URL, 100*time.Millisecond)
	assert.Error(t, err)
}

func TestCollyFetcher_ErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fetcher := NewCollyFetcher(FetcherConfig{})
	defer fetcher.Close()

	_, err := fetcher.Fetch(context.Background(), srv.URL, 5*time.Second)
	assert.Error(t, err)
}
