package seodata

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/toolscout/backend/metrics"
	"github.com/toolscout/backend/scoring"
)

// Provider endpoint paths.
const (
	endpointRankOverview = "/v3/dataforseo_labs/google/domain_rank_overview/live"
	endpointBacklinks    = "/v3/backlinks/summary/live"
	endpointHistory      = "/v3/dataforseo_labs/google/historical_rank_overview/live"
)

// Short labels for logs and metrics.
const (
	callRankOverview = "rank_overview"
	callBacklinks    = "backlinks"
	callHistory      = "history"
)

const defaultTimeout = 15 * time.Second

// Options configures a provider client. Either APIKey or a Login/Password
// pair must be set; the pair is base64-encoded into a single credential.
type Options struct {
	BaseURL   string
	APIKey    string
	Login     string
	Password  string
	Timeout   time.Duration
	UserAgent string
}

// Client issues lookups against the SEO data provider. Safe for concurrent
// use; every FetchAll performs one round of three concurrent calls.
type Client struct {
	httpClient *http.Client
	baseURL    string
	credential string
	userAgent  string
	metrics    *metrics.Metrics
}

// NewClient creates a provider client. The metrics handle may be nil.
func NewClient(opts Options, m *metrics.Metrics) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	credential := opts.APIKey
	if credential == "" {
		credential = base64.StdEncoding.EncodeToString([]byte(opts.Login + ":" + opts.Password))
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "ToolScout/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		credential: credential,
		userAgent:  userAgent,
		metrics:    m,
	}
}

// WithTransport swaps the underlying HTTP transport. Used by tests.
func (c *Client) WithTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// FetchAll resolves rank overview, backlink summary, and rank history for a
// domain or URL in one concurrent round. Each call isolates its own failure:
// a failed lookup is logged and its group left absent, never an error.
func (c *Client) FetchAll(ctx context.Context, domainOrURL string) DomainMetrics {
	domain := NormalizeHost(domainOrURL)
	if domain == "" {
		return DomainMetrics{}
	}

	var (
		result DomainMetrics
		wg     sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		rank, err := c.fetchRankOverview(ctx, domain)
		if err != nil {
			c.logCallFailure(callRankOverview, domain, err)
			return
		}
		result.RankOverview = rank
	}()
	go func() {
		defer wg.Done()
		backlinks, err := c.fetchBacklinks(ctx, domain)
		if err != nil {
			c.logCallFailure(callBacklinks, domain, err)
			return
		}
		result.Backlinks = backlinks
	}()
	go func() {
		defer wg.Done()
		history, err := c.fetchHistory(ctx, domain)
		if err != nil {
			c.logCallFailure(callHistory, domain, err)
			return
		}
		result.History = history
	}()
	wg.Wait()

	return result
}

func (c *Client) logCallFailure(call, domain string, err error) {
	c.metrics.IncProviderError(call, errorLabel(err))
	log.Printf("seodata: %s lookup for %s failed: %v", call, domain, err)
}

// taskRequest is the provider's POST body element.
type taskRequest struct {
	Target       string `json:"target"`
	LocationCode int    `json:"location_code,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

type organicMetrics struct {
	ETV    float64 `json:"etv"`
	Count  int64   `json:"count"`
	Pos1   int64   `json:"pos_1"`
	Pos23  int64   `json:"pos_2_3"`
	Pos410 int64   `json:"pos_4_10"`
}

type rankOverviewItem struct {
	Metrics struct {
		Organic organicMetrics `json:"organic"`
	} `json:"metrics"`
}

func (c *Client) fetchRankOverview(ctx context.Context, domain string) (*scoring.RankOverview, error) {
	items, err := c.call(ctx, callRankOverview, endpointRankOverview, []taskRequest{{
		Target:       domain,
		LocationCode: 2840,
		LanguageCode: "en",
	}})
	if err != nil {
		return nil, err
	}

	var item rankOverviewItem
	if err := json.Unmarshal(items[0], &item); err != nil {
		return nil, fmt.Errorf("decode rank overview item: %w", err)
	}

	organic := item.Metrics.Organic
	return &scoring.RankOverview{
		ETV:          organic.ETV,
		KeywordCount: organic.Count,
		PositionBuckets: map[string]int64{
			scoring.BucketTop3:  organic.Pos1 + organic.Pos23,
			scoring.BucketTop10: organic.Pos1 + organic.Pos23 + organic.Pos410,
		},
	}, nil
}

type backlinksItem struct {
	Rank             float64 `json:"rank"`
	Backlinks        int64   `json:"backlinks"`
	ReferringDomains int64   `json:"referring_domains"`
}

func (c *Client) fetchBacklinks(ctx context.Context, domain string) (*scoring.BacklinkSummary, error) {
	items, err := c.call(ctx, callBacklinks, endpointBacklinks, []taskRequest{{Target: domain}})
	if err != nil {
		return nil, err
	}

	var item backlinksItem
	if err := json.Unmarshal(items[0], &item); err != nil {
		return nil, fmt.Errorf("decode backlinks item: %w", err)
	}

	return &scoring.BacklinkSummary{
		DomainRank:       item.Rank,
		BacklinkCount:    item.Backlinks,
		ReferringDomains: item.ReferringDomains,
	}, nil
}

type historyPoint struct {
	Year    int `json:"year"`
	Month   int `json:"month"`
	Metrics struct {
		Organic organicMetrics `json:"organic"`
	} `json:"metrics"`
}

type historyResult struct {
	Items []historyPoint `json:"items"`
}

func (c *Client) fetchHistory(ctx context.Context, domain string) ([]HistoricalPoint, error) {
	items, err := c.call(ctx, callHistory, endpointHistory, []taskRequest{{
		Target:       domain,
		LocationCode: 2840,
		LanguageCode: "en",
	}})
	if err != nil {
		return nil, err
	}

	// Historical results usually nest the points under "items", but some
	// responses carry the points directly.
	var points []historyPoint
	for _, raw := range items {
		var nested historyResult
		if err := json.Unmarshal(raw, &nested); err == nil && len(nested.Items) > 0 {
			points = append(points, nested.Items...)
			continue
		}
		var direct historyPoint
		if err := json.Unmarshal(raw, &direct); err == nil && direct.Year != 0 {
			points = append(points, direct)
		}
	}
	if len(points) == 0 {
		return nil, errEmptyEnvelope
	}

	history := make([]HistoricalPoint, len(points))
	for i, p := range points {
		history[i] = HistoricalPoint{
			Year:         p.Year,
			Month:        p.Month,
			ETV:          p.Metrics.Organic.ETV,
			KeywordCount: p.Metrics.Organic.Count,
		}
	}
	sort.Slice(history, func(i, j int) bool {
		if history[i].Year != history[j].Year {
			return history[i].Year < history[j].Year
		}
		return history[i].Month < history[j].Month
	})
	return history, nil
}

// call posts one task to the provider and unwraps the response envelope.
func (c *Client) call(ctx context.Context, name, endpoint string, payload []taskRequest) ([]json.RawMessage, error) {
	c.metrics.IncProviderRequest(name)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.credential)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveProviderDuration(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired {
		return nil, ErrPaymentRequired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	items, err := decodeItems(data)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errEmptyEnvelope
	}
	return items, nil
}

// errorLabel maps a call failure to a metric label.
func errorLabel(err error) string {
	switch {
	case err == nil:
		return "unknown"
	case errors.Is(err, ErrPaymentRequired):
		return "payment_required"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, errEmptyEnvelope):
		return "empty"
	default:
		return "other"
	}
}

// NormalizeHost reduces a URL or bare domain to a bare hostname, stripping
// the scheme, path, port, and a leading "www.".
func NormalizeHost(input string) string {
	host := strings.TrimSpace(input)
	if host == "" {
		return ""
	}

	if strings.Contains(host, "://") {
		if u, err := url.Parse(host); err == nil && u.Host != "" {
			host = u.Host
		}
	} else if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}

	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}

	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}
