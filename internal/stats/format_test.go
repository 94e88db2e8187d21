package stats

import (
	"math"
	"testing"
	"time"

	"tradeforge-dashboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{-3.456, "-3.46%"},
		{0, "+0.00%"},
		{2.5, "+2.50%"},
		{12.345, "+12.35%"},
		{-0.001, "+0.00%"},
		{math.NaN(), "+0.00%"},
		{math.Inf(-1), "+0.00%"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPercent(tt.in), "FormatPercent(%v)", tt.in)
	}
}

func TestFormatter_GermanLocale(t *testing.T) {
	f := NewFormatter("de-DE", "$")

	assert.Equal(t, "1.234,56 $", f.FormatCurrency(1234.56))
	assert.Equal(t, "0,00 $", f.FormatCurrency(0))
	assert.Equal(t, "0,00 $", f.FormatCurrency(math.NaN()))
	assert.Equal(t, "0,00 $", f.FormatCurrencyPtr(nil))
	assert.Equal(t, "10.000,00 $", f.FormatCurrency(10000))
}

func TestFormatter_EnglishLocale(t *testing.T) {
	f := NewFormatter("en-US", "$")

	assert.Equal(t, "$1,234.56", f.FormatCurrency(1234.56))
	assert.Equal(t, "-$42.10", f.FormatCurrency(-42.1))
}

func TestFormatter_InvalidLocaleFallsBack(t *testing.T) {
	f := NewFormatter("not a locale!", "$")
	assert.Equal(t, "0,00 $", f.FormatCurrency(0))
}

func TestSummarize(t *testing.T) {
	f := NewFormatter("de-DE", "$")
	s := model.NewSnapshot(10000, time.Date(2026, 10, 19, 14, 5, 9, 0, time.UTC))
	s.APIConnected = true
	s.Loaded = true
	s.Portfolio = model.Portfolio{
		TotalValue:       10500,
		DayChange:        -120.5,
		DayChangePercent: -1.134,
		OpenPositions:    2,
		ClosedToday:      2,
		InitialCapital:   10000,
	}
	s.Positions = []model.Position{{ID: 1, PnL: 9.79}, {ID: 2, PnL: -3}}
	s.TodayTrades = []model.Trade{
		{Status: model.TradeStatusClosed, PnL: pnl(5)},
		{Status: model.TradeStatusClosed, PnL: pnl(-2)},
		{Status: model.TradeStatusOpen},
	}

	sum := Summarize(s, f)

	assert.Equal(t, "10.500,00 $", sum.PortfolioValue)
	assert.Equal(t, "-120,50 $", sum.DayChange)
	assert.Equal(t, "-1.13%", sum.DayChangePercent)
	assert.False(t, sum.DayChangePositive)
	assert.Equal(t, 2, sum.OpenPositions)
	assert.Equal(t, 1, sum.ProfitablePositions)
	assert.Equal(t, 3, sum.TradesToday)
	assert.Equal(t, 2, sum.ClosedToday)
	assert.Equal(t, 50, sum.WinRate)
	assert.Equal(t, "50%", sum.WinRateLabel)
	assert.Equal(t, "1 / 2 wins", sum.WinCaption)
	assert.Equal(t, LabelConnected, sum.ConnectionLabel)
	assert.Equal(t, "14:05:09", sum.LastUpdate)
	assert.True(t, sum.Loaded)
}

func TestSummarize_DefaultSnapshot(t *testing.T) {
	sum := Summarize(model.NewSnapshot(10000, time.Now()), NewFormatter("de-DE", "$"))

	assert.Equal(t, "10.000,00 $", sum.PortfolioValue)
	assert.Equal(t, "+0.00%", sum.DayChangePercent)
	assert.True(t, sum.DayChangePositive)
	assert.Equal(t, "0%", sum.WinRateLabel)
	assert.Equal(t, "0 / 0 wins", sum.WinCaption)
	assert.Equal(t, LabelDisconnected, sum.ConnectionLabel)
	assert.False(t, sum.Loaded)
}
