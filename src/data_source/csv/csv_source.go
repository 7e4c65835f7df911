package csv

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"volatility-observer/src/helpers"
	"volatility-observer/src/logger"
	"volatility-observer/src/models"
)

const SourceName = "csv"

// CSVSource reads daily bars from <Dir>/<SYMBOL>.csv with a header row of
// Date,Open,High,Low,Close and optional Volume and "Adj Close" columns.
type CSVSource struct {
	Dir        string
	AutoAdjust bool
	Logger     *logger.Logger
}

// -----------------------------------------------------------------------------

func NewCSVSource(cfg *models.MConfig, log *logger.Logger) *CSVSource {
	return &CSVSource{
		Dir:        cfg.DataSource.CSVDir,
		AutoAdjust: cfg.DataSource.AutoAdjust,
		Logger:     log.Named("CSVSource"),
	}
}

func (s *CSVSource) Name() string {
	return SourceName
}

// -----------------------------------------------------------------------------

// FetchDailyBars returns the rows dated in [start, end). A missing file means
// the symbol is unknown and yields no bars.
func (s *CSVSource) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]models.MPriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.Dir, strings.ToUpper(symbol)+".csv")
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s.Logger.Info("No CSV history for %s at %s", symbol, path)
		return []models.MPriceBar{}, nil
	}
	if err != nil {
		return nil, helpers.NewDataSourceError(fmt.Sprintf("opening %s", path), err)
	}
	defer f.Close()

	bars, err := s.parse(f)
	if err != nil {
		return nil, helpers.NewDataSourceError(fmt.Sprintf("reading %s", path), err)
	}

	from := day(start)
	to := day(end)
	out := make([]models.MPriceBar, 0, len(bars))
	for _, b := range bars {
		if b.Date.Before(from) || !b.Date.Before(to) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// -----------------------------------------------------------------------------

func (s *CSVSource) parse(r io.Reader) ([]models.MPriceBar, error) {
	reader := stdcsv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"date", "open", "high", "low", "close"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	volumeCol, hasVolume := cols["volume"]
	adjCol, hasAdj := cols["adj close"]

	var bars []models.MPriceBar
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(field(record, cols["date"])))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		bar := models.MPriceBar{Date: date}
		targets := []struct {
			col string
			dst *float64
		}{
			{"open", &bar.Open},
			{"high", &bar.High},
			{"low", &bar.Low},
			{"close", &bar.Close},
		}
		for _, t := range targets {
			v, err := number(field(record, cols[t.col]))
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, t.col, err)
			}
			*t.dst = v
		}
		if hasVolume {
			if v, err := number(field(record, volumeCol)); err == nil {
				bar.Volume = v
			}
		}
		if s.AutoAdjust && hasAdj && bar.Close != 0 {
			if adj, err := number(field(record, adjCol)); err == nil {
				ratio := adj / bar.Close
				bar.Open *= ratio
				bar.High *= ratio
				bar.Low *= ratio
				bar.Close = adj
			}
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func number(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
