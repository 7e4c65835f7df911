package analysis

import (
	"volatility-observer/src/analysis/estimators"
	"volatility-observer/src/models"
)

var estimatorInfo = map[string]models.MEstimatorInfo{
	estimators.NameCloseToClose: {
		Description:   "Standard deviation of log returns based on closing prices only.",
		Advantages:    "Simple to calculate, widely used",
		Disadvantages: "Ignores intraday price movements",
		Formula:       "σ = √(Σ(ln(Ct/Ct-1))²/n)",
	},
	estimators.NameParkinson: {
		Description:   "Volatility estimator using high and low prices (Parkinson, 1980).",
		Advantages:    "More efficient than close-to-close, uses range information",
		Disadvantages: "Assumes continuous trading, may underestimate volatility",
		Formula:       "σ = √(1/(4n*ln(2)) * Σ(ln(Ht/Lt))²)",
	},
	estimators.NameGarmanKlass: {
		Description:   "Combines high-low range and open-close prices (Garman & Klass, 1980).",
		Advantages:    "More efficient than Parkinson, incorporates opening and closing prices",
		Disadvantages: "Assumes continuous trading and normal distribution",
		Formula:       "σ = √(0.5*(ln(Ht/Lt))² - (2*ln(2)-1)*(ln(Ct/Ot))²)",
	},
	estimators.NameRogersSatchell: {
		Description:   "Handles non-zero drift without bias (Rogers & Satchell, 1991).",
		Advantages:    "Accounts for drift, robust to opening jumps",
		Disadvantages: "More complex to calculate",
		Formula:       "σ = √(ln(Ht/Ct)*ln(Ht/Ot) + ln(Lt/Ct)*ln(Lt/Ot))",
	},
	estimators.NameYangZhang: {
		Description:   "Combines overnight and trading volatility (Yang & Zhang, 2000).",
		Advantages:    "Most efficient estimator, handles opening jumps",
		Disadvantages: "Most complex to implement",
		Formula:       "σ = √(σ²overnight + k*σ²open + (1-k)*σ²rs)",
	},
}

// EstimatorInfo returns a copy of the static estimator descriptions.
func EstimatorInfo() map[string]models.MEstimatorInfo {
	out := make(map[string]models.MEstimatorInfo, len(estimatorInfo))
	for k, v := range estimatorInfo {
		out[k] = v
	}
	return out
}
