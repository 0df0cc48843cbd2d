package statsfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/qpfl/league-core/internal/platform/logging"
	"github.com/qpfl/league-core/internal/platform/resilience"
)

const (
	defaultHTTPTimeout = 20 * time.Second
	maxSnapshotBytes   = 6 << 20
)

var (
	apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
	errFeedTransient   = crerr.New("stats feed transient failure")
)

type HTTPFetcherConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	Retry      resilience.RetryPolicy
	Logger     *logging.Logger
}

// HTTPFetcher pulls weekly snapshots from {base}/seasons/{season}/weeks/{week}.
// 429 and 5xx responses and transport errors are retried; other statuses fail
// immediately.
type HTTPFetcher struct {
	httpClient *http.Client
	baseURL    string
	token      string
	retry      resilience.RetryPolicy
	logger     *logging.Logger
}

func NewHTTPFetcher(cfg HTTPFetcherConfig) *HTTPFetcher {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultHTTPTimeout
	}

	return &HTTPFetcher{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:      strings.TrimSpace(cfg.Token),
		retry:      resilience.NormalizeRetryPolicy(cfg.Retry),
		logger:     logging.OrDefault(cfg.Logger).Named("statsfeed.http"),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, season, week int) ([]byte, string, error) {
	fullURL := f.weekURL(season, week)
	location := redactAPIURL(fullURL)

	raw, err := resilience.Retry(ctx, f.retry, func(int) ([]byte, error) {
		raw, err := f.get(ctx, fullURL)
		if err != nil && !crerr.Is(err, errFeedTransient) {
			return nil, resilience.Permanent(err)
		}
		return raw, err
	}, func(err error, attempt int, wait time.Duration) {
		f.logger.WarnContext(ctx, "stats feed request failed, retrying", "url", location, "attempt", attempt, "wait", wait, "error", err)
	})
	if err != nil {
		f.logger.WarnContext(ctx, "stats feed request failed", "url", location, "error", err)
		return nil, location, crerr.Wrapf(err, "fetch stats snapshot %s", location)
	}
	return raw, location, nil
}

func (f *HTTPFetcher) weekURL(season, week int) string {
	fullURL := fmt.Sprintf("%s/seasons/%d/weeks/%d", f.baseURL, season, week)
	if f.token == "" {
		return fullURL
	}
	values := url.Values{}
	values.Set("api_token", f.token)
	return fullURL + "?" + values.Encode()
}

func (f *HTTPFetcher) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: send request: %s", errFeedTransient, sanitizeSensitiveText(err.Error(), f.token))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errFeedTransient, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	if isRetryableStatus(resp.StatusCode) {
		return nil, fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, resp.StatusCode, abbreviateBody(raw))
	}
	return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
