package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summarly/api/internal/config"
)

func newTestScraper() *ScraperClient {
	return NewScraperClient(&config.ScraperConfig{
		UserAgent: "summarly-test",
		Timeout:   5,
		MinLength: 50,
		MaxLength: 200,
	})
}

func extractKind(t *testing.T, err error) ExtractErrorKind {
	t.Helper()
	var ee *ExtractError
	require.True(t, errors.As(err, &ee), "expected *ExtractError, got %v", err)
	return ee.Kind
}

func TestScraperClient_StripsNonContent(t *testing.T) {
	page := `<html><head><script>var x=1;</script><style>p{}</style></head>
	<body>
	  <nav>site navigation links</nav>
	  <p>This is the real article body and it is comfortably longer than fifty characters.</p>
	  <footer>copyright footer</footer>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "summarly-test", r.Header.Get("User-Agent"))
		w.Write([]byte(page))
	}))
	defer srv.Close()

	text, err := newTestScraper().Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "real article body")
	assert.NotContains(t, text, "navigation")
	assert.NotContains(t, text, "copyright")
	assert.NotContains(t, text, "var x=1")
}

func TestScraperClient_TruncatesLongContent(t *testing.T) {
	body := "<body><p>" + strings.Repeat("word ", 200) + "</p></body>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	text, err := newTestScraper().Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, text, 200)
}

func TestScraperClient_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestScraper().Extract(context.Background(), srv.URL)
	assert.Equal(t, ExtractBadStatus, extractKind(t, err))
}

func TestScraperClient_TooShort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<body><p>tiny</p></body>"))
	}))
	defer srv.Close()

	_, err := newTestScraper().Extract(context.Background(), srv.URL)
	assert.Equal(t, ExtractTooShort, extractKind(t, err))
}

func TestScraperClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-url", "ftp://example.com/file", "http://"} {
		_, err := newTestScraper().Extract(context.Background(), raw)
		assert.Equal(t, ExtractInvalidURL, extractKind(t, err), "url %q", raw)
	}
}

func TestScraperClient_NetworkError(t *testing.T) {
	// Closed server → connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestScraper().Extract(context.Background(), srv.URL)
	assert.Equal(t, ExtractNetworkError, extractKind(t, err))
}
