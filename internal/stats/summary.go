package stats

import (
	"fmt"
	"strconv"

	"tradeforge-dashboard/internal/model"
)

const (
	LabelConnected    = "Agent Connected"
	LabelDisconnected = "Disconnected"
)

// Summary is the stat-card view of a snapshot.
type Summary struct {
	PortfolioValue      string `json:"portfolioValue"`
	DayChange           string `json:"dayChange"`
	DayChangePercent    string `json:"dayChangePercent"`
	DayChangePositive   bool   `json:"dayChangePositive"`
	TotalReturn         string `json:"totalReturn"`
	OpenPositions       int    `json:"openPositions"`
	ProfitablePositions int    `json:"profitablePositions"`
	TradesToday         int    `json:"tradesToday"`
	ClosedToday         int    `json:"closedToday"`
	WinRate             int    `json:"winRate"`
	WinRateLabel        string `json:"winRateLabel"`
	WinCaption          string `json:"winCaption"`
	Connected           bool   `json:"connected"`
	ConnectionLabel     string `json:"connectionLabel"`
	LastUpdate          string `json:"lastUpdate"`
	Loaded              bool   `json:"loaded"`
}

// Summarize derives the stat cards shown above the tables.
func Summarize(s model.Snapshot, f *Formatter) Summary {
	wins, closed := WinCounts(s)
	rate := WinRateToday(s)

	label := LabelDisconnected
	if s.APIConnected {
		label = LabelConnected
	}

	return Summary{
		PortfolioValue:      f.FormatCurrency(s.Portfolio.TotalValue),
		DayChange:           f.FormatCurrency(s.Portfolio.DayChange),
		DayChangePercent:    FormatPercent(s.Portfolio.DayChangePercent),
		DayChangePositive:   finite(s.Portfolio.DayChange) >= 0,
		TotalReturn:         FormatPercent(s.Portfolio.TotalReturn),
		OpenPositions:       s.Portfolio.OpenPositions,
		ProfitablePositions: ProfitablePositionCount(s),
		TradesToday:         len(s.TodayTrades),
		ClosedToday:         s.Portfolio.ClosedToday,
		WinRate:             rate,
		WinRateLabel:        strconv.Itoa(rate) + "%",
		WinCaption:          fmt.Sprintf("%d / %d wins", wins, closed),
		Connected:           s.APIConnected,
		ConnectionLabel:     label,
		LastUpdate:          s.LastUpdate.Format("15:04:05"),
		Loaded:              s.Loaded,
	}
}
