package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"volatility-observer/src/helpers"
	"volatility-observer/src/interfaces"
	"volatility-observer/src/logger"
	"volatility-observer/src/models"
)

// StatusError is returned for a non-retryable HTTP status. Body holds the
// upstream payload so callers can inspect provider error documents.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %d", e.Code)
}

// -----------------------------------------------------------------------------

type AsyncNetworkManager struct {
	Config       *models.MConfig
	ProxyManager interfaces.IProxyManager
	Client       *http.Client
	Logger       *logger.Logger
	Backoff      time.Duration
}

// -----------------------------------------------------------------------------

func NewAsyncNetworkManager(cfg *models.MConfig, log *logger.Logger) *AsyncNetworkManager {
	var proxies []string
	if cfg.Network.Enabled {
		proxies = cfg.Network.Proxies
	}

	nm := &AsyncNetworkManager{
		Config:       cfg,
		ProxyManager: helpers.NewProxyManager(proxies, cfg.Network.UserAgent, log),
		Logger:       log.Named("NetworkManager"),
		Backoff:      time.Second,
	}
	nm.Client = nm.createClient()
	return nm
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) createClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	// Resolve the proxy per request so rotation never swaps the client
	// under in-flight calls.
	transport.Proxy = func(*http.Request) (*url.URL, error) {
		if !nm.ProxyManager.HasProxies() {
			return nil, nil
		}
		proxyStr, err := nm.ProxyManager.GetCurrentProxy()
		if err != nil || proxyStr == "" {
			return nil, err
		}
		return url.Parse(proxyStr)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(nm.Config.Network.RequestTimeout) * time.Second,
	}
}

// -----------------------------------------------------------------------------

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusForbidden || code >= 500
}

// -----------------------------------------------------------------------------

// Get performs a GET request with retries and proxy rotation.
func (nm *AsyncNetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqUrl, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	q := reqUrl.Query()
	for k, v := range params {
		q.Add(k, v)
	}
	reqUrl.RawQuery = q.Encode()

	finalUrl := reqUrl.String()

	maxRetries := nm.Config.Network.MaxRetries
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			// Quadratic backoff, interrupted by cancellation
			select {
			case <-time.After(time.Duration(i*i) * nm.Backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			nm.ProxyManager.RotateProxy()
		}

		body, code, err := nm.do(ctx, finalUrl)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			nm.Logger.Info("Request failed (attempt %d/%d): %v", i+1, maxRetries+1, err)
			continue
		}

		if code == http.StatusOK {
			return body, nil
		}

		if !retryable(code) {
			return nil, &StatusError{Code: code, Body: body}
		}

		lastErr = &StatusError{Code: code, Body: body}
		nm.Logger.Info("Request got status %d (attempt %d/%d)", code, i+1, maxRetries+1)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) do(ctx context.Context, finalUrl string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalUrl, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", nm.ProxyManager.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := nm.Client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
