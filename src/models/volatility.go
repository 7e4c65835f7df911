package models

// MVolatilityRequest is the body of POST /api/volatility.
type MVolatilityRequest struct {
	Symbol    string `json:"symbol" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// MSeriesPoint is a single dated value. "Date" is capitalized on the wire.
type MSeriesPoint struct {
	Date  string  `json:"Date"`
	Value float64 `json:"value"`
}

type MSummaryStats struct {
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Skew     float64 `json:"skew"`
	Kurtosis float64 `json:"kurtosis"`
}

// MEstimatorResult is one estimator block of the response.
type MEstimatorResult struct {
	Name          string         `json:"name"`
	Values        []MSeriesPoint `json:"values"`
	RollingValues []MSeriesPoint `json:"rolling_values"`
	Stats         MSummaryStats  `json:"stats"`
	Method        string         `json:"-"`
}

type MVolatilityResponse struct {
	Data   []MEstimatorResult `json:"data"`
	Symbol string             `json:"symbol"`
}

// MEstimatorInfo describes an estimator for the dashboard.
type MEstimatorInfo struct {
	Description   string `json:"description"`
	Advantages    string `json:"advantages"`
	Disadvantages string `json:"disadvantages"`
	Formula       string `json:"formula"`
}
