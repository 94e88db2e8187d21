package stats

import (
	"math"
	"testing"
	"time"

	"tradeforge-dashboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func pnl(v float64) *float64 { return &v }

func snapshotWithTrades(trades ...model.Trade) model.Snapshot {
	s := model.NewSnapshot(10000, time.Now())
	s.TodayTrades = trades
	return s
}

func TestWinRateToday(t *testing.T) {
	tests := []struct {
		name   string
		trades []model.Trade
		want   int
	}{
		{"no trades", nil, 0},
		{
			name: "only open trades",
			trades: []model.Trade{
				{Ticker: "AMD", Status: model.TradeStatusOpen},
				{Ticker: "NVDA", Status: model.TradeStatusOpen, PnL: pnl(3)},
			},
			want: 0,
		},
		{
			name: "mixed closed and open",
			trades: []model.Trade{
				{Status: model.TradeStatusClosed, PnL: pnl(5)},
				{Status: model.TradeStatusClosed, PnL: pnl(-2)},
				{Status: model.TradeStatusOpen, PnL: nil},
			},
			want: 50,
		},
		{
			name: "all closed winners",
			trades: []model.Trade{
				{Status: model.TradeStatusClosed, PnL: pnl(1)},
				{Status: model.TradeStatusClosed, PnL: pnl(0.01)},
			},
			want: 100,
		},
		{
			name: "no closed winners",
			trades: []model.Trade{
				{Status: model.TradeStatusClosed, PnL: pnl(-1)},
				{Status: model.TradeStatusClosed, PnL: pnl(0)},
				{Status: model.TradeStatusClosed, PnL: nil},
			},
			want: 0,
		},
		{
			name: "rounds to nearest",
			trades: []model.Trade{
				{Status: model.TradeStatusClosed, PnL: pnl(1)},
				{Status: model.TradeStatusClosed, PnL: pnl(1)},
				{Status: model.TradeStatusClosed, PnL: pnl(-1)},
			},
			want: 67,
		},
		{
			name: "half rounds up",
			trades: []model.Trade{
				{Status: model.TradeStatusClosed, PnL: pnl(1)},
				{Status: model.TradeStatusClosed, PnL: pnl(-1)},
				{Status: model.TradeStatusClosed, PnL: pnl(-1)},
				{Status: model.TradeStatusClosed, PnL: pnl(-1)},
				{Status: model.TradeStatusClosed, PnL: pnl(-1)},
				{Status: model.TradeStatusClosed, PnL: pnl(-1)},
				{Status: model.TradeStatusClosed, PnL: pnl(-1)},
				{Status: model.TradeStatusClosed, PnL: pnl(-1)},
			},
			want: 13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WinRateToday(snapshotWithTrades(tt.trades...)))
		})
	}
}

func TestWinCounts(t *testing.T) {
	wins, closed := WinCounts(snapshotWithTrades(
		model.Trade{Status: model.TradeStatusClosed, PnL: pnl(5)},
		model.Trade{Status: model.TradeStatusClosed, PnL: pnl(-2)},
		model.Trade{Status: model.TradeStatusOpen},
	))
	assert.Equal(t, 1, wins)
	assert.Equal(t, 2, closed)
}

func TestProfitablePositionCount(t *testing.T) {
	s := model.NewSnapshot(10000, time.Now())
	assert.Equal(t, 0, ProfitablePositionCount(s))

	s.Positions = []model.Position{
		{ID: 1, Ticker: "NVDA", PnL: 9.79},
		{ID: 2, Ticker: "TSLA", PnL: -3.0},
	}
	assert.Equal(t, 1, ProfitablePositionCount(s))

	s.Positions = append(s.Positions, model.Position{ID: 3, Ticker: "AMD", PnL: math.NaN()})
	assert.Equal(t, 1, ProfitablePositionCount(s))
}

func TestOrZero(t *testing.T) {
	assert.Equal(t, 0.0, OrZero(nil))
	assert.Equal(t, 2.5, OrZero(pnl(2.5)))
	assert.Equal(t, 0.0, OrZero(pnl(math.Inf(1))))
}
