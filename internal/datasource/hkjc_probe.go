package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/yourusername/race-advisor/internal/logger"
	"github.com/yourusername/race-advisor/internal/models"
)

// HKJCSourceName identifies the Hong Kong Jockey Club site probe
const HKJCSourceName = "hkjc"

const (
	hkjcAccessibleMessage = "HKJC site accessible but requires authentication for detailed data"
	hkjcRecommendation    = "Use manual data upload or implement OAuth flow for HKJC API access"
	hkjcDataFormat        = "HTML_scraping_possible"

	maxReportedEndpoints = 5
	maxMatchesPerPattern = 10
	maxBodyBytes         = 5 << 20
)

var (
	scriptURLPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

	probePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)https?://[^\s<>"']*api[^\s<>"']*`),
		regexp.MustCompile(`(?i)https?://[^\s<>"']*json[^\s<>"']*`),
		regexp.MustCompile(`(?i)https?://[^\s<>"']*data[^\s<>"']*`),
		regexp.MustCompile(`(?i)/api/`),
		regexp.MustCompile(`(?i)/data/`),
		regexp.MustCompile(`(?i)/json/`),
	}
)

// ProbeResult describes what a single URL exposed
type ProbeResult struct {
	URL           string   `json:"url"`
	StatusCode    int      `json:"status_code,omitempty"`
	Accessible    bool     `json:"accessible"`
	ContentLength int      `json:"content_length"`
	Title         string   `json:"title,omitempty"`
	HasAPICalls   bool     `json:"has_api_calls"`
	APIEndpoints  []string `json:"api_endpoints"`
	Error         string   `json:"error,omitempty"`
}

// ProbeSummary aggregates probe results across URLs
type ProbeSummary struct {
	Results        []ProbeResult `json:"results"`
	Accessible     int           `json:"accessible"`
	WithAPICalls   int           `json:"with_api_calls"`
	Recommendation string        `json:"recommendation"`
}

// HKJCProbe investigates the public HKJC sites. It never yields a race corpus
// since detailed data sits behind a corporate login.
type HKJCProbe struct {
	httpClient *RateLimitedHTTPClient
	racingURL  string
	enabled    bool
	logger     *logger.SourceLogger
}

// NewHKJCProbe creates a new HKJC probe
func NewHKJCProbe(httpClient *RateLimitedHTTPClient, racingURL string, enabled bool, baseLogger *logrus.Logger) *HKJCProbe {
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}
	return &HKJCProbe{
		httpClient: httpClient,
		racingURL:  racingURL,
		enabled:    enabled,
		logger:     logger.NewSourceLogger(baseLogger),
	}
}

// FetchRaces runs an investigation and returns its report as an error
func (p *HKJCProbe) FetchRaces(ctx context.Context, _, _ time.Time) ([]models.RaceRecord, error) {
	if !p.enabled {
		return nil, NewDataSourceError(HKJCSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}
	return nil, &ReportError{Source: HKJCSourceName, Report: p.Investigate(ctx)}
}

// Name returns the data source name
func (p *HKJCProbe) Name() string {
	return HKJCSourceName
}

// IsEnabled returns whether this data source is enabled
func (p *HKJCProbe) IsEnabled() bool {
	return p.enabled
}

// Investigate probes the racing page and reports what access is possible
func (p *HKJCProbe) Investigate(ctx context.Context) *models.SourceReport {
	resp, err := p.httpClient.Get(ctx, p.racingURL)
	if err != nil {
		return models.NewSourceReport(models.SourceStatusError, fmt.Sprintf("Error accessing HKJC: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.NewSourceReport(models.SourceStatusAccessDenied,
			fmt.Sprintf("HKJC site returned status %d", resp.StatusCode))
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return models.NewSourceReport(models.SourceStatusError, fmt.Sprintf("Error accessing HKJC: %v", err))
	}

	var endpoints []string
	for _, script := range scriptTexts(doc) {
		for _, u := range scriptURLPattern.FindAllString(script, -1) {
			lower := strings.ToLower(u)
			if strings.Contains(lower, "api") || strings.Contains(lower, "json") {
				endpoints = append(endpoints, u)
			}
		}
	}
	if len(endpoints) > maxReportedEndpoints {
		endpoints = endpoints[:maxReportedEndpoints]
	}

	report := models.NewSourceReport(models.SourceStatusInvestigationComplete, hkjcAccessibleMessage)
	report.Findings = map[string]interface{}{
		"main_site_accessible":     true,
		"corporate_login_required": true,
		"potential_api_endpoints":  unique(endpoints),
		"race_elements":            countRaceElements(doc),
		"data_format":              hkjcDataFormat,
		"authentication_needed":    true,
	}
	report.Recommendation = hkjcRecommendation
	return report
}

// ProbeAll checks each URL for reachability, page title and script-embedded
// data endpoints
func (p *HKJCProbe) ProbeAll(ctx context.Context, urls []string) *ProbeSummary {
	summary := &ProbeSummary{Results: make([]ProbeResult, 0, len(urls))}

	for _, u := range urls {
		result := p.probe(ctx, u)
		p.logger.LogProbe(u, result.StatusCode, result.Accessible, len(result.APIEndpoints))

		if result.Accessible {
			summary.Accessible++
		}
		if result.HasAPICalls {
			summary.WithAPICalls++
		}
		summary.Results = append(summary.Results, result)
	}

	if summary.WithAPICalls == 0 {
		summary.Recommendation = "No obvious API endpoints found; " + hkjcRecommendation
	} else {
		summary.Recommendation = fmt.Sprintf("Found %d sites with potential API endpoints; these may require authentication", summary.WithAPICalls)
	}
	return summary
}

func (p *HKJCProbe) probe(ctx context.Context, url string) ProbeResult {
	result := ProbeResult{URL: url, APIEndpoints: []string{}}

	resp, err := p.httpClient.Get(ctx, url)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.StatusCode = resp.StatusCode
	result.Accessible = resp.StatusCode == http.StatusOK
	result.ContentLength = utf8.RuneCount(body)
	if !result.Accessible {
		return result
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Title = strings.TrimSpace(pageTitle(doc))

	var endpoints []string
	for _, script := range scriptTexts(doc) {
		for _, pattern := range probePatterns {
			matches := pattern.FindAllString(script, maxMatchesPerPattern)
			if len(matches) > 0 {
				result.HasAPICalls = true
				endpoints = append(endpoints, matches...)
			}
		}
	}
	result.APIEndpoints = unique(endpoints)
	return result
}

// scriptTexts returns the inline text of every script element with a single text child
func scriptTexts(doc *html.Node) []string {
	var texts []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "script" {
			return
		}
		if c := n.FirstChild; c != nil && c == n.LastChild && c.Type == html.TextNode {
			texts = append(texts, c.Data)
		}
	})
	return texts
}

func pageTitle(doc *html.Node) string {
	var title string
	found := false
	walk(doc, func(n *html.Node) {
		if found || n.Type != html.ElementNode || n.Data != "title" {
			return
		}
		found = true
		var b strings.Builder
		walk(n, func(c *html.Node) {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		})
		title = b.String()
	})
	return title
}

// countRaceElements counts div and table elements whose class mentions a race or horse
func countRaceElements(doc *html.Node) int {
	count := 0
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || (n.Data != "div" && n.Data != "table") {
			return
		}
		for _, attr := range n.Attr {
			if attr.Key != "class" {
				continue
			}
			class := strings.ToLower(attr.Val)
			if strings.Contains(class, "race") || strings.Contains(class, "horse") {
				count++
			}
		}
	})
	return count
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// unique removes duplicates while keeping first-seen order
func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
