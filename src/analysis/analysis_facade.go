package analysis

import (
	"volatility-observer/src/analysis/core"
	"volatility-observer/src/analysis/estimators"
	"volatility-observer/src/logger"
	"volatility-observer/src/models"
)

// DateLayout is the wire format of every date in a response.
const DateLayout = "2006-01-02"

const defaultRollingWindow = 20

type AnalysisFacade struct {
	Config        *models.MConfig
	Logger        *logger.Logger
	Params        estimators.Params
	RollingWindow int
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(cfg *models.MConfig, log *logger.Logger) *AnalysisFacade {
	params := estimators.DefaultParams()
	rolling := defaultRollingWindow
	if cfg != nil {
		if cfg.Analysis.TradingDays > 0 {
			params.TradingDays = cfg.Analysis.TradingDays
		}
		if cfg.Analysis.YangZhangWindow > 1 {
			params.YangZhangWindow = cfg.Analysis.YangZhangWindow
		}
		if cfg.Analysis.RollingWindow > 0 {
			rolling = cfg.Analysis.RollingWindow
		}
	}

	return &AnalysisFacade{
		Config:        cfg,
		Logger:        log,
		Params:        params,
		RollingWindow: rolling,
	}
}

// -----------------------------------------------------------------------------

// Analyze runs all estimators over bars (ascending, non-empty) and assembles
// the response blocks in estimators.Names order. It does not touch the
// network, so the same bars always produce the same response.
func (a *AnalysisFacade) Analyze(symbol string, bars []models.MPriceBar) models.MVolatilityResponse {
	yz := estimators.YangZhang(bars, a.Params)
	if yz.Fallback() {
		a.Logger.Warning("Yang-Zhang fell back to Close-to-Close for %s: %v", symbol, yz.Err)
	}

	series := map[string]estimators.Series{
		estimators.NameCloseToClose:   estimators.CloseToClose(bars, a.Params),
		estimators.NameParkinson:      estimators.Parkinson(bars, a.Params),
		estimators.NameGarmanKlass:    estimators.GarmanKlass(bars, a.Params),
		estimators.NameRogersSatchell: estimators.RogersSatchell(bars, a.Params),
		estimators.NameYangZhang:      yz.Series,
	}

	data := make([]models.MEstimatorResult, 0, len(estimators.Names))
	for _, name := range estimators.Names {
		result := a.buildResult(name, series[name])
		if name == estimators.NameYangZhang {
			result.Method = string(yz.Method)
		}
		data = append(data, result)
	}

	a.Logger.Debug("Analyzed %d bars for %s", len(bars), symbol)
	return models.MVolatilityResponse{Data: data, Symbol: symbol}
}

// -----------------------------------------------------------------------------

func (a *AnalysisFacade) buildResult(name string, s estimators.Series) models.MEstimatorResult {
	values := make([]models.MSeriesPoint, 0, s.Len())
	for i, v := range s.Values {
		values = append(values, models.MSeriesPoint{Date: s.Dates[i].Format(DateLayout), Value: v})
	}

	rollingMean := core.RollingMean(s.Values, a.RollingWindow)
	rolling := make([]models.MSeriesPoint, 0, len(rollingMean))
	for i, v := range rollingMean {
		if !core.IsFinite(v) {
			continue
		}
		rolling = append(rolling, models.MSeriesPoint{Date: s.Dates[i].Format(DateLayout), Value: v})
	}

	return models.MEstimatorResult{
		Name:          name,
		Values:        values,
		RollingValues: rolling,
		Stats:         core.SummaryStats(s.Values),
		Method:        string(estimators.MethodComputed),
	}
}
