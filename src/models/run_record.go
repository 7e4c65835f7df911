package models

import "time"

// MRunRecord is a persisted summary of one successful volatility request.
type MRunRecord struct {
	ID        int64                `json:"id"`
	Symbol    string               `json:"symbol"`
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Bars      int                  `json:"bars"`
	CreatedAt time.Time            `json:"created_at"`
	Stats     []MRunEstimatorStats `json:"stats"`
}

type MRunEstimatorStats struct {
	Estimator string        `json:"estimator"`
	Method    string        `json:"method"`
	Stats     MSummaryStats `json:"stats"`
}
