package model

// DedupePositions drops positions whose id was already seen, keeping the first.
func DedupePositions(in []Position) []Position {
	return dedupe(in, func(p Position) int64 { return p.ID })
}

// DedupeWatchlist drops repeated tickers, keeping the first.
func DedupeWatchlist(in []WatchlistItem) []WatchlistItem {
	return dedupe(in, func(w WatchlistItem) string { return w.Ticker })
}

// DedupeStrategies drops repeated strategy names, keeping the first.
func DedupeStrategies(in []StrategyStat) []StrategyStat {
	return dedupe(in, func(s StrategyStat) string { return s.Name })
}

func dedupe[T any, K comparable](in []T, key func(T) K) []T {
	out := make([]T, 0, len(in))
	seen := make(map[K]struct{}, len(in))
	for _, v := range in {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
