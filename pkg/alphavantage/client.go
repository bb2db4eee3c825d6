package alphavantage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.alphavantage.co"

// Payload is a raw Alpha Vantage response body. The API returns loosely
// structured JSON whose shape varies by endpoint, so payloads stay as maps
// and callers pick out the keys they need.
type Payload map[string]any

// Client fetches market data from the Alpha Vantage query API.
type Client interface {
	CompanyOverview(ctx context.Context, symbol string) (Payload, error)
	GlobalQuote(ctx context.Context, symbol string) (Payload, error)
	Earnings(ctx context.Context, symbol string) (Payload, error)
	IncomeStatement(ctx context.Context, symbol string) (Payload, error)
	BalanceSheet(ctx context.Context, symbol string) (Payload, error)
	CashFlow(ctx context.Context, symbol string) (Payload, error)
	EarningsEstimates(ctx context.Context, symbol string) (Payload, error)
	EarningsCallTranscript(ctx context.Context, symbol, quarter string) (Payload, error)
	NewsSentiment(ctx context.Context, tickers []string) (Payload, error)
	SymbolSearch(ctx context.Context, keywords string) (Payload, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate. The free tier allows
// 25 calls per day; paid tiers allow 75+ calls per minute.
func WithRateLimit(perMinute float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perMinute/60.0), burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an Alpha Vantage API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(75.0/60.0), 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) CompanyOverview(ctx context.Context, symbol string) (Payload, error) {
	return c.query(ctx, "OVERVIEW", url.Values{"symbol": {symbol}})
}

func (c *httpClient) GlobalQuote(ctx context.Context, symbol string) (Payload, error) {
	return c.query(ctx, "GLOBAL_QUOTE", url.Values{"symbol": {symbol}})
}

func (c *httpClient) Earnings(ctx context.Context, symbol string) (Payload, error) {
	return c.query(ctx, "EARNINGS", url.Values{"symbol": {symbol}})
}

func (c *httpClient) IncomeStatement(ctx context.Context, symbol string) (Payload, error) {
	return c.query(ctx, "INCOME_STATEMENT", url.Values{"symbol": {symbol}})
}

func (c *httpClient) BalanceSheet(ctx context.Context, symbol string) (Payload, error) {
	return c.query(ctx, "BALANCE_SHEET", url.Values{"symbol": {symbol}})
}

func (c *httpClient) CashFlow(ctx context.Context, symbol string) (Payload, error) {
	return c.query(ctx, "CASH_FLOW", url.Values{"symbol": {symbol}})
}

func (c *httpClient) EarningsEstimates(ctx context.Context, symbol string) (Payload, error) {
	return c.query(ctx, "EARNINGS_ESTIMATES", url.Values{"symbol": {symbol}})
}

// EarningsCallTranscript fetches the transcript for a fiscal quarter in
// YYYYQN form, e.g. "2025Q2".
func (c *httpClient) EarningsCallTranscript(ctx context.Context, symbol, quarter string) (Payload, error) {
	return c.query(ctx, "EARNINGS_CALL_TRANSCRIPT", url.Values{
		"symbol":  {symbol},
		"quarter": {quarter},
	})
}

func (c *httpClient) NewsSentiment(ctx context.Context, tickers []string) (Payload, error) {
	return c.query(ctx, "NEWS_SENTIMENT", url.Values{
		"tickers": {strings.Join(tickers, ",")},
	})
}

// SymbolSearch resolves free-text keywords to candidate symbols.
func (c *httpClient) SymbolSearch(ctx context.Context, keywords string) (Payload, error) {
	return c.query(ctx, "SYMBOL_SEARCH", url.Values{"keywords": {keywords}})
}

func (c *httpClient) query(ctx context.Context, function string, params url.Values) (Payload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "alphavantage: rate limit wait")
	}

	params.Set("function", function)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "alphavantage: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "alphavantage: %s request", function)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "alphavantage: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("alphavantage: %s: unexpected status %d: %s", function, resp.StatusCode, string(body))
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, eris.Wrapf(err, "alphavantage: %s: unmarshal response", function)
	}

	// The API reports errors as 200 responses with a sentinel key.
	for _, key := range []string{"Error Message", "Information", "Note"} {
		if msg, ok := payload[key].(string); ok {
			return nil, eris.Errorf("alphavantage: %s: %s", function, msg)
		}
	}

	return payload, nil
}
