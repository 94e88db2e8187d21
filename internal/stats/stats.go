// Package stats derives read-only statistics from a synchronized snapshot.
// Every function is total: empty collections, absent values and zero
// denominators all produce a defined result.
package stats

import (
	"math"

	"tradeforge-dashboard/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// WinCounts returns the number of closed trades with positive pnl and the
// number of closed trades.
func WinCounts(s model.Snapshot) (wins, closed int) {
	for _, t := range s.TodayTrades {
		if !t.Closed() {
			continue
		}
		closed++
		if OrZero(t.PnL) > 0 {
			wins++
		}
	}
	return wins, closed
}

// WinRateToday is the percentage of closed trades with positive pnl, rounded
// to the nearest integer. It is 0 when nothing has been closed yet.
func WinRateToday(s model.Snapshot) int {
	wins, closed := WinCounts(s)
	if closed == 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(wins)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(closed))).
		Round(0)
	return int(rate.IntPart())
}

// ProfitablePositionCount counts open positions with positive pnl.
func ProfitablePositionCount(s model.Snapshot) int {
	n := 0
	for _, p := range s.Positions {
		if finite(p.PnL) > 0 {
			n++
		}
	}
	return n
}

// OrZero maps an absent optional value to 0.
func OrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return finite(*v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
