// Package onpage fetches a domain's homepage and extracts basic on-page SEO
// signals. It is best-effort enrichment: any failure yields an absent
// snapshot, never an error surfaced to end users.
package onpage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Snapshot holds the signals extracted from one homepage fetch.
type Snapshot struct {
	Title           string   `json:"title"`
	TitleLength     int      `json:"titleLength"`
	MetaDescription string   `json:"metaDescription"`
	H1Count         int      `json:"h1Count"`
	H1Text          []string `json:"h1Text,omitempty"`
	MobileOptimized bool     `json:"mobileOptimized"`
	StatusCode      int      `json:"statusCode"`
}

// Prober fetches homepages over a pooled HTTP client.
type Prober struct {
	client    *http.Client
	userAgent string
}

// New creates a Prober with a bounded timeout.
func New(timeout time.Duration, userAgent string) *Prober {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if userAgent == "" {
		userAgent = "ToolScout/1.0"
	}
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// WithTransport swaps the underlying HTTP transport. Used by tests.
func (p *Prober) WithTransport(rt http.RoundTripper) {
	p.client.Transport = rt
}

// Probe fetches https://<domain> and extracts the snapshot signals.
func (p *Prober) Probe(ctx context.Context, domain string) (*Snapshot, error) {
	target := domain
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch homepage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("homepage returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse homepage: %w", err)
	}

	snapshot := &Snapshot{StatusCode: resp.StatusCode}

	snapshot.Title = strings.TrimSpace(doc.Find("title").First().Text())
	snapshot.TitleLength = len(snapshot.Title)

	snapshot.MetaDescription, _ = doc.Find("meta[name='description']").Attr("content")
	snapshot.MetaDescription = strings.TrimSpace(snapshot.MetaDescription)

	h1 := doc.Find("h1")
	snapshot.H1Count = h1.Length()
	h1.Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			snapshot.H1Text = append(snapshot.H1Text, text)
		}
	})

	doc.Find("meta[name='viewport']").Each(func(_ int, s *goquery.Selection) {
		content, exists := s.Attr("content")
		if exists && strings.Contains(strings.ToLower(content), "width=device-width") {
			snapshot.MobileOptimized = true
		}
	})

	return snapshot, nil
}
