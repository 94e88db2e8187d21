package dashboard

import (
	"fmt"
	"html/template"
	"math"

	"tradeforge-dashboard/internal/model"
	"tradeforge-dashboard/internal/stats"
)

type pageData struct {
	View
}

func (s *Server) funcs() template.FuncMap {
	return template.FuncMap{
		"currency":   s.formatter.FormatCurrency,
		"percent":    stats.FormatPercent,
		"percentPtr": func(v *float64) string { return stats.FormatPercent(stats.OrZero(v)) },
		"tone":       tone,
		"tonePtr":    func(v *float64) string { return tone(stats.OrZero(v)) },
		"confidence": confidence,
		"side":       side,
	}
}

// tone picks the CSS class for a signed amount.
func tone(v float64) string {
	switch {
	case v > 0:
		return "positive"
	case v < 0:
		return "negative"
	default:
		return "neutral"
	}
}

func confidence(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return fmt.Sprintf("%.0f%%", math.Max(0, math.Min(1, v))*100)
}

func side(p model.Position) string {
	if p.IsShort() {
		return "short"
	}
	return "long"
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>TradeForge Dashboard</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; background-color: #0f172a; color: #e2e8f0; }
        .container { max-width: 1400px; margin: 0 auto; }
        .header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 20px; }
        .header h1 { margin: 0; font-size: 2em; }
        .status-indicator { display: flex; align-items: center; gap: 12px; font-weight: bold; }
        .status-dot { width: 12px; height: 12px; border-radius: 50%; display: inline-block; margin-right: 6px; }
        .status-active { background-color: #22c55e; }
        .status-danger { background-color: #ef4444; }
        .loading { text-align: center; padding: 60px; font-size: 1.4em; color: #94a3b8; }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 16px; margin-bottom: 20px; }
        .card { background: #1e293b; border-radius: 10px; padding: 18px; }
        .card h3 { margin: 0 0 8px 0; font-size: 0.9em; color: #94a3b8; font-weight: 500; }
        .large-metric { font-size: 1.6em; font-weight: bold; }
        .caption { font-size: 0.85em; color: #94a3b8; margin-top: 4px; }
        .positive { color: #22c55e; }
        .negative { color: #ef4444; }
        .neutral { color: #e2e8f0; }
        .panels { display: grid; grid-template-columns: 2fr 1fr; gap: 16px; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #334155; }
        th { color: #94a3b8; font-weight: 600; }
        .badge { padding: 2px 8px; border-radius: 4px; font-size: 0.8em; font-weight: bold; }
        .badge.long { background-color: #166534; }
        .badge.short { background-color: #991b1b; }
        .empty { color: #64748b; font-style: italic; padding: 12px 0; }
        iframe { width: 100%; height: 380px; border: 0; border-radius: 10px; }
        button { background: #3b82f6; color: white; border: 0; border-radius: 6px; padding: 8px 14px; cursor: pointer; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>TradeForge</h1>
        <div class="status-indicator">
            <span><span class="status-dot {{if .Summary.Connected}}status-active{{else}}status-danger{{end}}"></span><span>{{.Summary.ConnectionLabel}}</span></span>
            <span class="caption">Last update <span>{{.Summary.LastUpdate}}</span></span>
            <button id="refresh">Refresh</button>
        </div>
    </div>
{{if not .Summary.Loaded}}
    <div class="loading">Loading…</div>
{{else}}
    <div class="grid">
        <div class="card">
            <h3>Portfolio Value</h3>
            <div class="large-metric">{{.Summary.PortfolioValue}}</div>
            <div class="caption {{if .Summary.DayChangePositive}}positive{{else}}negative{{end}}"><span>{{.Summary.DayChange}}</span> (<span>{{.Summary.DayChangePercent}}</span>)</div>
        </div>
        <div class="card">
            <h3>Open Positions</h3>
            <div class="large-metric">{{.Summary.OpenPositions}}</div>
            <div class="caption"><span>{{.Summary.ProfitablePositions}}</span> profitable</div>
        </div>
        <div class="card">
            <h3>Today's Trades</h3>
            <div class="large-metric">{{.Summary.TradesToday}}</div>
            <div class="caption"><span>{{.Summary.ClosedToday}}</span> closed</div>
        </div>
        <div class="card">
            <h3>Win Rate</h3>
            <div class="large-metric">{{.Summary.WinRateLabel}}</div>
            <div class="caption">{{.Summary.WinCaption}}</div>
        </div>
    </div>

    <div class="card" style="margin-bottom: 16px;">
        <h3>Performance</h3>
        <iframe id="chart" src="/chart"></iframe>
    </div>

    <div class="panels">
        <div>
            <div class="card" style="margin-bottom: 16px;">
                <h3>Open Positions</h3>
                {{if .Snapshot.Positions}}
                <table>
                    <thead><tr><th>Ticker</th><th>Side</th><th>Strategy</th><th>Entry</th><th>Current</th><th>Leverage</th><th>P&amp;L</th><th>Confidence</th></tr></thead>
                    <tbody>
                    {{range .Snapshot.Positions}}
                    <tr data-id="{{.ID}}">
                        <td>{{.Ticker}}</td>
                        <td><span class="badge {{side .}}">{{.Type}}</span></td>
                        <td>{{.Strategy}}</td>
                        <td>{{currency .EntryPrice}}</td>
                        <td>{{currency .CurrentPrice}}</td>
                        <td>{{.Leverage}}x</td>
                        <td class="{{tone .PnL}}">{{percent .PnL}}</td>
                        <td>{{confidence .Confidence}}</td>
                    </tr>
                    {{end}}
                    </tbody>
                </table>
                {{else}}
                <div class="empty">No open positions</div>
                {{end}}
            </div>
            <div class="card">
                <h3>Today's Trades</h3>
                {{if .Snapshot.TodayTrades}}
                <table>
                    <thead><tr><th>Time</th><th>Ticker</th><th>Type</th><th>Strategy</th><th>Price</th><th>P&amp;L</th><th>Status</th></tr></thead>
                    <tbody>
                    {{range .Snapshot.TodayTrades}}
                    <tr>
                        <td>{{.Time}}</td>
                        <td>{{.Ticker}}</td>
                        <td>{{.Type}}</td>
                        <td>{{.Strategy}}</td>
                        <td>{{currency .Price}}</td>
                        <td class="{{tonePtr .PnL}}">{{if .PnL}}{{percentPtr .PnL}}{{else}}-{{end}}</td>
                        <td>{{.Status}}</td>
                    </tr>
                    {{end}}
                    </tbody>
                </table>
                {{else}}
                <div class="empty">No trades today</div>
                {{end}}
            </div>
        </div>
        <div>
            <div class="card" style="margin-bottom: 16px;">
                <h3>Watchlist</h3>
                {{if .Snapshot.Watchlist}}
                <table>
                    <tbody>
                    {{range .Snapshot.Watchlist}}
                    <tr data-ticker="{{.Ticker}}"><td>{{.Ticker}}</td><td>{{currency .Price}}</td><td class="{{tone .Change}}">{{percent .Change}}</td></tr>
                    {{end}}
                    </tbody>
                </table>
                {{else}}
                <div class="empty">Watchlist is empty</div>
                {{end}}
            </div>
            <div class="card">
                <h3>Strategies</h3>
                {{if .Snapshot.StrategyStats}}
                <table>
                    <thead><tr><th>Name</th><th>Trades</th><th>Win Rate</th><th>Avg Return</th></tr></thead>
                    <tbody>
                    {{range .Snapshot.StrategyStats}}
                    <tr data-name="{{.Name}}"><td>{{.Name}}</td><td>{{.Trades}}</td><td>{{printf "%.1f%%" .WinRate}}</td><td class="{{tone .AvgReturn}}">{{percent .AvgReturn}}</td></tr>
                    {{end}}
                    </tbody>
                </table>
                {{else}}
                <div class="empty">No strategy statistics</div>
                {{end}}
            </div>
        </div>
    </div>
{{end}}
</div>
<script>
    function reloadContent() {
        fetch('/').then(function (resp) { return resp.text(); }).then(function (html) {
            const doc = new DOMParser().parseFromString(html, 'text/html');
            const next = doc.querySelector('.container');
            if (next) {
                document.querySelector('.container').innerHTML = next.innerHTML;
            }
        });
    }

    document.addEventListener('click', function (event) {
        if (event.target && event.target.id === 'refresh') {
            fetch('/api/refresh', { method: 'POST' }).then(reloadContent);
        }
    });

    function connect() {
        const proto = window.location.protocol === 'https:' ? 'wss://' : 'ws://';
        const ws = new WebSocket(proto + window.location.host + '/ws');
        ws.onmessage = reloadContent;
        ws.onclose = function () { setTimeout(connect, 3000); };
    }
    connect();
</script>
</body>
</html>
`
