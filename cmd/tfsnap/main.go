package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"tradeforge-dashboard/internal/cfg"
	"tradeforge-dashboard/internal/dashboard"
	"tradeforge-dashboard/internal/gateway"
	"tradeforge-dashboard/internal/stats"
	"tradeforge-dashboard/internal/synchronizer"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line arguments
	var (
		baseURL  = flag.String("url", "", "Agent API base URL (overrides config)")
		timeout  = flag.Duration("timeout", 0, "Per-request timeout (overrides config)")
		locale   = flag.String("locale", "", "Locale for currency formatting (overrides config)")
		symbol   = flag.String("symbol", "", "Currency symbol (overrides config)")
		logLevel = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
		asJSON   = flag.Bool("json", false, "Print snapshot and summary as JSON")
	)
	flag.Parse()

	// Setup logging
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Override config with command line arguments
	if *baseURL != "" {
		u, err := cfg.ValidateBaseURL(*baseURL)
		if err != nil {
			log.Fatal().Err(err).Str("url", *baseURL).Msg("Invalid -url")
		}
		config.BaseURL = u
	}
	if *timeout > 0 {
		config.RESTTimeout = *timeout
	}
	if *locale != "" {
		config.Locale = *locale
	}
	if *symbol != "" {
		config.CurrencySymbol = *symbol
	}

	client := gateway.NewREST(config.BaseURL, config.RESTTimeout)
	syncer := synchronizer.New(client, config.DefaultPortfolioValue, config.PollInterval)

	ctx, cancel := context.WithTimeout(context.Background(), config.RESTTimeout+5*time.Second)
	snap := syncer.Synchronize(ctx)
	cancel()
	syncer.Stop()

	summary := stats.Summarize(snap, stats.NewFormatter(config.Locale, config.CurrencySymbol))

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dashboard.View{Snapshot: snap, Summary: summary}); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode snapshot")
		}
	} else {
		printSummary(config.BaseURL, summary)
	}

	if !snap.APIConnected {
		os.Exit(2)
	}
}

func printSummary(agent string, s stats.Summary) {
	fmt.Println("=== TradeForge Snapshot ===")
	fmt.Printf("Agent:            %s (%s)\n", agent, s.ConnectionLabel)
	fmt.Printf("Last Update:      %s\n", s.LastUpdate)
	fmt.Printf("Portfolio Value:  %s\n", s.PortfolioValue)
	fmt.Printf("Day Change:       %s (%s)\n", s.DayChange, s.DayChangePercent)
	fmt.Printf("Total Return:     %s\n", s.TotalReturn)
	fmt.Printf("Open Positions:   %d (%d profitable)\n", s.OpenPositions, s.ProfitablePositions)
	fmt.Printf("Trades Today:     %d (%d closed)\n", s.TradesToday, s.ClosedToday)
	fmt.Printf("Win Rate:         %s (%s)\n", s.WinRateLabel, s.WinCaption)
	fmt.Println("===========================")
}
