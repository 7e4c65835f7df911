package utils

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// Yahoo-style symbol suffix to ISO 10383 MIC. Symbols without a known
// suffix trade on NYSE hours.
var suffixToMIC = map[string]string{
	".L":  "xlon",
	".PA": "xpar",
	".DE": "xfra",
	".AS": "xams",
	".BR": "xbru",
	".MI": "xmil",
	".MC": "xmad",
	".ST": "xsto",
	".CO": "xcse",
	".HE": "xhel",
	".VI": "xwbo",
	".SW": "xswx",
	".TO": "xtse",
	".V":  "xtsx",
	".T":  "xtks",
	".HK": "xhkg",
	".AX": "xasx",
	".KS": "xkrx",
	".TW": "xtai",
	".SS": "xshg",
	".SZ": "xshe",
}

const defaultMIC = "xnys"

// TradingCalendar resolves the exchange calendar and timezone of a symbol.
type TradingCalendar struct {
	MIC      string
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// MICForSymbol maps a symbol to its exchange MIC by suffix.
func MICForSymbol(symbol string) string {
	symbol = strings.ToUpper(symbol)
	if dot := strings.LastIndex(symbol, "."); dot > 0 {
		if mic, ok := suffixToMIC[symbol[dot:]]; ok {
			return mic
		}
	}
	return defaultMIC
}

// -----------------------------------------------------------------------------

func GetCalendar(symbol string) *TradingCalendar {
	mic := MICForSymbol(symbol)

	cal := calendar.GetCalendar(mic)
	if cal == nil {
		mic = defaultMIC
		cal = calendar.GetCalendar(mic)
	}

	if cal == nil || cal.Loc == nil {
		nyLoc, err := time.LoadLocation("America/New_York")
		if err != nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{MIC: mic, Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{MIC: mic, Calendar: cal, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

// MidnightIn returns 00:00 of the given calendar day in the exchange timezone.
func (tc *TradingCalendar) MidnightIn(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, tc.Timezone)
}
