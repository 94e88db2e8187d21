package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// The decoders below read agent payloads field by field. A field that is
// missing, null or of the wrong type reads as its zero value; it never
// discards the rest of the resource. Collections that are not JSON arrays
// decode as empty, and array elements that are not objects are skipped.

// DecodePortfolio reads a portfolio payload. A payload that is not an
// object yields a zero portfolio.
func DecodePortfolio(raw []byte) Portfolio {
	r := gjson.ParseBytes(raw)
	if !r.IsObject() {
		return Portfolio{}
	}
	return Portfolio{
		TotalValue:       number(r.Get("totalValue")),
		DayChange:        number(r.Get("dayChange")),
		DayChangePercent: number(r.Get("dayChangePercent")),
		TotalReturn:      number(r.Get("totalReturn")),
		OpenPositions:    integer(r.Get("openPositions")),
		ClosedToday:      integer(r.Get("closedToday")),
		InitialCapital:   number(r.Get("initialCapital")),
	}
}

func DecodePositions(raw []byte) []Position {
	return decodeList(raw, func(r gjson.Result) Position {
		return Position{
			ID:           int64(integer(r.Get("id"))),
			Ticker:       text(r.Get("ticker")),
			Type:         text(r.Get("type")),
			Strategy:     text(r.Get("strategy")),
			EntryPrice:   number(r.Get("entry")),
			CurrentPrice: number(r.Get("current")),
			Leverage:     number(r.Get("leverage")),
			PnL:          number(r.Get("pnl")),
			Confidence:   number(r.Get("confidence")),
		}
	})
}

// DecodeTrades reads today's trades. A null or non-numeric pnl marks the
// trade as still open.
func DecodeTrades(raw []byte) []Trade {
	return decodeList(raw, func(r gjson.Result) Trade {
		return Trade{
			Time:     text(r.Get("time")),
			Ticker:   text(r.Get("ticker")),
			Type:     text(r.Get("type")),
			Strategy: text(r.Get("strategy")),
			Price:    number(r.Get("price")),
			PnL:      optional(r.Get("pnl")),
			Status:   text(r.Get("status")),
		}
	})
}

func DecodeWatchlist(raw []byte) []WatchlistItem {
	return decodeList(raw, func(r gjson.Result) WatchlistItem {
		return WatchlistItem{
			Ticker: text(r.Get("ticker")),
			Price:  number(r.Get("price")),
			Change: number(r.Get("change")),
		}
	})
}

func DecodeStrategies(raw []byte) []StrategyStat {
	return decodeList(raw, func(r gjson.Result) StrategyStat {
		return StrategyStat{
			Name:      text(r.Get("name")),
			Trades:    integer(r.Get("trades")),
			WinRate:   number(r.Get("winRate")),
			AvgReturn: number(r.Get("avgReturn")),
		}
	})
}

func DecodePerformance(raw []byte) []PerformancePoint {
	return decodeList(raw, func(r gjson.Result) PerformancePoint {
		return PerformancePoint{
			Time:  text(r.Get("time")),
			Value: number(r.Get("value")),
		}
	})
}

func decodeList[T any](raw []byte, item func(gjson.Result) T) []T {
	out := []T{}
	r := gjson.ParseBytes(raw)
	if !r.IsArray() {
		return out
	}
	r.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			out = append(out, item(v))
		}
		return true
	})
	return out
}

// number accepts JSON numbers and numeric strings.
func number(r gjson.Result) float64 {
	v, ok := numeric(r)
	if !ok {
		return 0
	}
	return v
}

func integer(r gjson.Result) int {
	return int(math.Round(number(r)))
}

func optional(r gjson.Result) *float64 {
	v, ok := numeric(r)
	if !ok {
		return nil
	}
	return &v
}

func numeric(r gjson.Result) (float64, bool) {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// text accepts strings and renders numbers and booleans as written.
func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number, gjson.True, gjson.False:
		return r.Raw
	}
	return ""
}
