package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/summarly/api/internal/config"
)

// nonContentSelector matches elements stripped before text extraction.
const nonContentSelector = "script, style, noscript, iframe, header, footer, nav"

// ScraperClient fetches a web page and extracts its readable text.
type ScraperClient struct {
	httpClient *http.Client
	userAgent  string
	minLength  int
	maxLength  int
}

// NewScraperClient creates a new page scraper.
func NewScraperClient(cfg *config.ScraperConfig) *ScraperClient {
	return &ScraperClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		userAgent: cfg.UserAgent,
		minLength: cfg.MinLength,
		maxLength: cfg.MaxLength,
	}
}

// Extract fetches the URL and returns the page's plain text with
// non-content elements removed. Failures are returned as *ExtractError
// with a classified kind.
func (c *ScraperClient) Extract(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", extractErr(ExtractInvalidURL, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", extractErr(ExtractInvalidURL, fmt.Errorf("unsupported URL %q", rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", extractErr(ExtractInvalidURL, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", extractErr(ExtractNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", extractErr(ExtractBadStatus, fmt.Errorf("status %d from %s", resp.StatusCode, parsed.Host))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", extractErr(ExtractTooShort, err)
	}

	doc.Find(nonContentSelector).Remove()

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(text) < c.minLength {
		return "", extractErr(ExtractTooShort, errors.New("extracted content is too short or empty"))
	}

	if len(text) > c.maxLength {
		text = text[:c.maxLength]
	}

	return text, nil
}
