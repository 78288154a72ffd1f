package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultCoinGeckoURL is the public CoinGecko API base.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

var ErrPriceNotFound = errors.New("price not found")

// Oracle returns USD prices for assets by feed id.
type Oracle interface {
	USDPrice(ctx context.Context, id string) (decimal.Decimal, error)
}

// CoinGecko queries the CoinGecko simple price endpoint.
type CoinGecko struct {
	baseURL string
	client  *retryablehttp.Client
	logger  *zap.Logger
}

// NewCoinGecko builds a CoinGecko oracle. Requests are not retried.
func NewCoinGecko(baseURL string, timeout time.Duration, logger *zap.Logger) *CoinGecko {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.HTTPClient = &http.Client{Timeout: timeout}
	client.Logger = leveledLogger{logger.Sugar()}
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &CoinGecko{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// USDPrice returns the USD price for a CoinGecko coin id such as "sui".
func (c *CoinGecko) USDPrice(ctx context.Context, id string) (decimal.Decimal, error) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return decimal.Zero, fmt.Errorf("price id is required")
	}

	query := url.Values{}
	query.Set("ids", id)
	query.Set("vs_currencies", "usd")
	reqURL := c.baseURL + "/simple/price?" + query.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build price request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch price %s: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read price response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, fmt.Errorf("fetch price %s: status %d: %s", id, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload map[string]map[string]json.Number
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("decode price response: %w", err)
	}
	raw, ok := payload[id]["usd"]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrPriceNotFound, id)
	}
	price, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", raw, err)
	}

	c.logger.Debug("price fetched", zap.String("id", id), zap.String("usd", price.String()))
	return price, nil
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}
