package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"volatility-observer/src/helpers"
	"volatility-observer/src/interfaces"
	"volatility-observer/src/logger"
	"volatility-observer/src/models"
	"volatility-observer/src/network"
	"volatility-observer/src/utils"
)

const (
	SourceName     = "yahoo"
	DefaultBaseURL = "https://query1.finance.yahoo.com"
)

type YahooFinanceSource struct {
	Config     *models.MConfig
	Network    interfaces.INetworkManager
	Logger     *logger.Logger
	BaseURL    string
	AutoAdjust bool
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *YahooFinanceSource {
	baseURL := strings.TrimRight(cfg.DataSource.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &YahooFinanceSource{
		Config:     cfg,
		Network:    netMgr,
		Logger:     log.Named("YahooFinanceSource"),
		BaseURL:    baseURL,
		AutoAdjust: cfg.DataSource.AutoAdjust,
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return SourceName
}

// -----------------------------------------------------------------------------

// FetchDailyBars downloads daily bars for [start, end). Calendar days are
// anchored at midnight in the exchange timezone of the symbol. An unknown
// symbol yields no bars and no error.
func (s *YahooFinanceSource) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.MPriceBar, error) {
	cal := utils.GetCalendar(symbol)
	params := map[string]string{
		"interval":             "1d",
		"period1":              strconv.FormatInt(cal.MidnightIn(start).Unix(), 10),
		"period2":              strconv.FormatInt(cal.MidnightIn(end).Unix(), 10),
		"events":               "div,splits",
		"includeAdjustedClose": "true",
	}
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", s.BaseURL, url.PathEscape(symbol))

	body, err := s.Network.Get(ctx, endpoint, params)
	if err != nil {
		var statusErr *network.StatusError
		if errors.As(err, &statusErr) && (statusErr.Code == http.StatusNotFound || reportsNoData(statusErr.Body)) {
			s.Logger.Info("Yahoo has no chart for %s (status %d)", symbol, statusErr.Code)
			return []models.MPriceBar{}, nil
		}
		return nil, helpers.NewNetworkError(fmt.Sprintf("fetching %s", symbol), err)
	}

	bars, err := s.parseChartResponse(symbol, body, cal.Timezone)
	if err != nil {
		return nil, err
	}

	bars = clip(bars, start, end)
	s.Logger.Info("Fetched %s: %d daily bars", symbol, len(bars))
	return bars, nil
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string `json:"currency"`
				Symbol               string `json:"symbol"`
				ExchangeName         string `json:"exchangeName"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				DataGranularity      string `json:"dataGranularity"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Open   []*float64 `json:"open"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *YahooChartError `json:"error"`
	} `json:"chart"`
}

type YahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// noData covers unknown symbols and ranges without any session, which Yahoo
// answers with 400 "Data doesn't exist for startDate = ...".
func (e *YahooChartError) noData() bool {
	return strings.EqualFold(e.Code, "Not Found") ||
		strings.HasPrefix(e.Description, "Data doesn't exist")
}

// reportsNoData inspects the body of a failed response for a no-data chart error.
func reportsNoData(body []byte) bool {
	var resp YahooChartResponse
	if len(body) == 0 || json.Unmarshal(body, &resp) != nil || resp.Chart.Error == nil {
		return false
	}
	return resp.Chart.Error.noData()
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte, fallbackLoc *time.Location) ([]models.MPriceBar, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, helpers.NewDataSourceError(fmt.Sprintf("decoding chart for %s", symbol), err)
	}

	if resp.Chart.Error != nil {
		if resp.Chart.Error.noData() {
			return []models.MPriceBar{}, nil
		}
		return nil, helpers.NewDataSourceError(
			fmt.Sprintf("yahoo api error for %s: %s - %s", symbol, resp.Chart.Error.Code, resp.Chart.Error.Description), nil)
	}

	if len(resp.Chart.Result) == 0 {
		return []models.MPriceBar{}, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return []models.MPriceBar{}, nil
	}

	loc := fallbackLoc
	if name := result.Meta.ExchangeTimezoneName; name != "" {
		if l, err := time.LoadLocation(name); err == nil {
			loc = l
		}
	}

	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(quote.Open) != n || len(quote.High) != n || len(quote.Low) != n || len(quote.Close) != n {
		return nil, helpers.NewDataSourceError(fmt.Sprintf("data alignment error for %s", symbol), nil)
	}

	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) == n {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]models.MPriceBar, 0, n)
	for i, ts := range result.Timestamp {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			s.Logger.Debug("Skipping incomplete row for %s at index %d", symbol, i)
			continue
		}

		bar := models.MPriceBar{
			Date:  sessionDate(ts, loc),
			Open:  *quote.Open[i],
			High:  *quote.High[i],
			Low:   *quote.Low[i],
			Close: *quote.Close[i],
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}

		if s.AutoAdjust && adjClose != nil && adjClose[i] != nil && bar.Close != 0 {
			ratio := *adjClose[i] / bar.Close
			bar.Open *= ratio
			bar.High *= ratio
			bar.Low *= ratio
			bar.Close = *adjClose[i]
		}
		bars = append(bars, bar)
	}

	return dedupe(bars), nil
}

// -----------------------------------------------------------------------------

// sessionDate maps a bar timestamp to its trading day at UTC midnight.
func sessionDate(ts int64, loc *time.Location) time.Time {
	local := time.Unix(ts, 0).In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// dedupe sorts by date and keeps the last row of each day.
func dedupe(bars []models.MPriceBar) []models.MPriceBar {
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})
	out := bars[:0]
	for _, b := range bars {
		if len(out) > 0 && out[len(out)-1].Date.Equal(b.Date) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func clip(bars []models.MPriceBar, start, end time.Time) []models.MPriceBar {
	from := utcDay(start)
	to := utcDay(end)
	out := make([]models.MPriceBar, 0, len(bars))
	for _, b := range bars {
		if b.Date.Before(from) || !b.Date.Before(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func utcDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
