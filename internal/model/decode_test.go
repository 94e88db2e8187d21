package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePortfolio(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Portfolio
	}{
		{
			name:    "agent shape",
			payload: `{"totalValue":10432.5,"dayChange":432.5,"dayChangePercent":4.325,"totalReturn":4.33,"openPositions":2,"closedToday":1,"initialCapital":10000}`,
			want:    Portfolio{TotalValue: 10432.5, DayChange: 432.5, DayChangePercent: 4.325, TotalReturn: 4.33, OpenPositions: 2, ClosedToday: 1, InitialCapital: 10000},
		},
		{
			name:    "float counts",
			payload: `{"totalValue":12000,"openPositions":3.0,"closedToday":2.0}`,
			want:    Portfolio{TotalValue: 12000, OpenPositions: 3, ClosedToday: 2},
		},
		{
			name:    "bad fields read as zero",
			payload: `{"totalValue":"12000.5","dayChange":"n/a","openPositions":null,"closedToday":true,"initialCapital":{}}`,
			want:    Portfolio{TotalValue: 12000.5},
		},
		{name: "not an object", payload: `[1,2]`, want: Portfolio{}},
		{name: "scalar", payload: `42`, want: Portfolio{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodePortfolio([]byte(tt.payload)))
		})
	}
}

func TestDecodePositions_AgentShape(t *testing.T) {
	payload := `[{"id":1,"ticker":"NVDA","type":"buy","strategy":"momentum","entry":120.1,"current":131.86,"leverage":2,"pnl":9.79,"confidence":0.82},
	             {"id":2,"ticker":"TSLA","type":"sell","strategy":"mean_reversion","entry":250,"current":257.5,"leverage":1,"pnl":-3,"confidence":0.61}]`

	positions := DecodePositions([]byte(payload))
	require.Len(t, positions, 2)

	assert.Equal(t, Position{
		ID: 1, Ticker: "NVDA", Type: "buy", Strategy: "momentum",
		EntryPrice: 120.1, CurrentPrice: 131.86, Leverage: 2, PnL: 9.79, Confidence: 0.82,
	}, positions[0])
	assert.False(t, positions[0].IsShort())
	assert.True(t, positions[1].IsShort())
	assert.Equal(t, 257.5, positions[1].CurrentPrice)
}

func TestDecodeList_Tolerance(t *testing.T) {
	assert.Equal(t, []Position{}, DecodePositions([]byte(`{"unexpected":"object"}`)))
	assert.Equal(t, []Position{}, DecodePositions([]byte(`null`)))

	watch := DecodeWatchlist([]byte(`[42, "MSFT", {"ticker":"GOOG","price":"165.1","change":null}, {"ticker":7}]`))
	assert.Equal(t, []WatchlistItem{{Ticker: "GOOG", Price: 165.1}, {Ticker: "7"}}, watch)

	strategies := DecodeStrategies([]byte(`[{"name":"momentum","trades":12.0,"winRate":58.3,"avgReturn":"bad"}]`))
	assert.Equal(t, []StrategyStat{{Name: "momentum", Trades: 12, WinRate: 58.3}}, strategies)

	perf := DecodePerformance([]byte(`[{"time":"09:30","value":10000},{"time":"10:00"}]`))
	assert.Equal(t, []PerformancePoint{{Time: "09:30", Value: 10000}, {Time: "10:00"}}, perf)
}

func TestDecodeTrades_NullPnLIsOpen(t *testing.T) {
	payload := `[{"ticker":"AMD","type":"buy","price":142.1,"pnl":null,"status":"open"},
	             {"ticker":"NVDA","type":"sell","price":131.5,"pnl":4.2,"status":"closed","time":"10:15","strategy":"momentum"},
	             {"ticker":"META","type":"buy","price":"560","status":"open"}]`

	trades := DecodeTrades([]byte(payload))
	require.Len(t, trades, 3)

	assert.Nil(t, trades[0].PnL)
	assert.False(t, trades[0].Closed())
	require.NotNil(t, trades[1].PnL)
	assert.Equal(t, 4.2, *trades[1].PnL)
	assert.True(t, trades[1].Closed())
	assert.Equal(t, "10:15", trades[1].Time)
	assert.Nil(t, trades[2].PnL, "missing pnl is open")
	assert.Equal(t, 560.0, trades[2].Price)
}
