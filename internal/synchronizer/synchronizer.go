// Package synchronizer keeps one consistent snapshot of the trading agent's
// state. Each cycle fetches all six resources concurrently, substitutes
// defaults for the absent ones and publishes the merged snapshot with a
// single atomic swap, so readers never observe a partially updated state.
package synchronizer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"tradeforge-dashboard/internal/common"
	"tradeforge-dashboard/internal/metrics"
	"tradeforge-dashboard/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAlreadyRunning = errors.New("synchronizer is already running")
	ErrStopped        = errors.New("synchronizer has been stopped")
)

// Fetcher returns the JSON payload of one agent resource and whether it was
// present. Implemented by gateway.Client.
type Fetcher interface {
	FetchResource(ctx context.Context, endpoint string) (json.RawMessage, bool)
}

type Synchronizer struct {
	fetcher  Fetcher
	baseline float64
	interval time.Duration
	recorder metrics.SyncRecorder
	now      func() time.Time

	current atomic.Pointer[model.Snapshot]
	issued  atomic.Uint64
	stopped atomic.Bool

	// life is cancelled by Stop and bounds every cycle, manual ones included
	life    context.Context
	endLife context.CancelFunc

	publishMu sync.Mutex
	published uint64

	subsMu sync.RWMutex
	subs   map[chan model.Snapshot]struct{}

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a synchronizer that substitutes a portfolio worth baseline
// when the portfolio resource is absent and polls every interval once started.
func New(fetcher Fetcher, baseline float64, interval time.Duration) *Synchronizer {
	if interval <= 0 {
		interval = common.DefaultPollInterval
	}
	s := &Synchronizer{
		fetcher:  fetcher,
		baseline: baseline,
		interval: interval,
		recorder: metrics.Nop{},
		now:      time.Now,
		subs:     make(map[chan model.Snapshot]struct{}),
	}
	s.life, s.endLife = context.WithCancel(context.Background())
	initial := model.NewSnapshot(baseline, s.now())
	s.current.Store(&initial)
	return s
}

// SetMetrics attaches a recorder for cycle outcomes.
func (s *Synchronizer) SetMetrics(recorder metrics.SyncRecorder) {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	s.recorder = recorder
}

// SetClock replaces the time source used for LastUpdate (useful for testing).
func (s *Synchronizer) SetClock(now func() time.Time) {
	s.now = now
}

// Snapshot returns the most recently published snapshot.
func (s *Synchronizer) Snapshot() model.Snapshot {
	return *s.current.Load()
}

// Synchronize runs one cycle and returns the snapshot that is current after
// it. A cycle that completes after a newer one was published, or after Stop,
// is discarded. After Stop no agent requests are made.
func (s *Synchronizer) Synchronize(ctx context.Context) model.Snapshot {
	if s.stopped.Load() {
		return s.Snapshot()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	release := context.AfterFunc(s.life, cancel)
	defer release()

	id := s.issued.Add(1)
	start := time.Now()
	snap := s.collect(ctx)

	if !s.publish(id, snap) {
		s.recorder.SyncDiscardedInc()
		log.Debug().Uint64("cycle", id).Msg("Discarded synchronization cycle")
		return s.Snapshot()
	}

	s.recorder.ObserveCycle(snap, time.Since(start).Seconds())
	log.Debug().
		Uint64("cycle", id).
		Bool("api_connected", snap.APIConnected).
		Int("positions", len(snap.Positions)).
		Int("trades", len(snap.TodayTrades)).
		Dur("took", time.Since(start)).
		Msg("Published snapshot")
	return snap
}

// collect fetches all resources concurrently and waits for every one of them
// to settle before merging. Presence is decided by the fetcher alone; the
// payload is then decoded field by field so a malformed field reads as 0.
func (s *Synchronizer) collect(ctx context.Context) model.Snapshot {
	// payload indexes below follow this order
	endpoints := [...]string{
		common.EndpointPortfolio,
		common.EndpointPositions,
		common.EndpointTradesToday,
		common.EndpointWatchlist,
		common.EndpointStrategies,
		common.EndpointPerformance,
	}
	var (
		payloads [len(endpoints)]json.RawMessage
		present  [len(endpoints)]bool
	)

	var g errgroup.Group
	for i, endpoint := range endpoints {
		i, endpoint := i, endpoint
		g.Go(func() error {
			// Stop may have run since Synchronize checked it
			if ctx.Err() != nil || s.stopped.Load() {
				return nil
			}
			payloads[i], present[i] = s.fetcher.FetchResource(ctx, endpoint)
			return nil
		})
	}
	_ = g.Wait() // tasks never fail; absence is reported through present

	snap := model.NewSnapshot(s.baseline, time.Time{})
	snap.APIConnected = present[0]
	snap.Loaded = true

	if present[0] {
		snap.Portfolio = model.DecodePortfolio(payloads[0])
	}
	if present[1] {
		snap.Positions = model.DedupePositions(model.DecodePositions(payloads[1]))
	}
	if present[2] {
		snap.TodayTrades = model.DecodeTrades(payloads[2])
	}
	if present[3] {
		snap.Watchlist = model.DedupeWatchlist(model.DecodeWatchlist(payloads[3]))
	}
	if present[4] {
		snap.StrategyStats = model.DedupeStrategies(model.DecodeStrategies(payloads[4]))
	}
	if present[5] {
		snap.Performance = model.DecodePerformance(payloads[5])
	}
	snap.LastUpdate = s.now()
	return snap
}

func (s *Synchronizer) publish(id uint64, snap model.Snapshot) bool {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	if s.stopped.Load() || id <= s.published {
		return false
	}
	s.published = id
	s.current.Store(&snap)
	s.broadcast(snap)
	return true
}

// Subscribe returns a channel receiving every published snapshot and a
// function that cancels the subscription. Slow subscribers miss updates
// rather than block publishing. The channel is closed by cancel or Stop.
func (s *Synchronizer) Subscribe() (<-chan model.Snapshot, func()) {
	ch := make(chan model.Snapshot, common.DefaultSubscriberBufferSize)

	s.subsMu.Lock()
	if s.subs == nil {
		s.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel
}

func (s *Synchronizer) broadcast(snap model.Snapshot) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()

	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Subscriber is behind, skip this update
		}
	}
}

// Start runs one cycle immediately and then one every interval until Stop
// is called or ctx is cancelled.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.stopped.Load() {
		return ErrStopped
	}
	if s.running {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(runCtx, s.done)

	log.Info().Dur("interval", s.interval).Msg("Synchronizer started")
	return nil
}

func (s *Synchronizer) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.Synchronize(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Synchronize(ctx)
		}
	}
}

// Stop cancels the periodic timer and waits for the loop to exit. In-flight
// requests of any cycle, manual ones included, are cancelled and their
// results discarded.
// Subscriber channels are closed. Stop is idempotent.
func (s *Synchronizer) Stop() {
	if s.stopped.Swap(true) {
		return
	}
	s.endLife()

	s.runMu.Lock()
	cancel, done := s.cancel, s.done
	s.running = false
	s.runMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	s.subsMu.Lock()
	for ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	s.subsMu.Unlock()

	log.Info().Msg("Synchronizer stopped")
}
