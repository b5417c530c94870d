package jobs

import (
	"context"
	"errors"
	"fmt"
	"gatherbeat/cmd/internal/domain/entity"
	"gatherbeat/cmd/internal/infrastructure/gather"
	"gatherbeat/cmd/internal/service"
	"gatherbeat/cmd/internal/utils/uid"
	"sort"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
)

const DefaultPollInterval = 60 * time.Second

type Mode string

const (
	// ModeBatched buckets minutes and flushes them in one bulk call per account.
	ModeBatched Mode = "batched"
	// ModeImmediate sends one heartbeat per present participant every tick.
	ModeImmediate Mode = "immediate"
)

var ErrTickInProgress = errors.New("a heartbeat tick is already running")

// TickReport summarizes a single poll pass.
type TickReport struct {
	ID         int64
	Seen       int
	Eligible   int
	Resolved   int
	Dispatches []service.DispatchResult
}

func (r *TickReport) Failures() int {
	n := 0
	for _, d := range r.Dispatches {
		if !d.OK() {
			n++
		}
	}
	return n
}

type PollerConfig struct {
	Interval time.Duration
	Timeout  time.Duration
	Mode     Mode
}

type HeartbeatPoller struct {
	Feed       gather.Feed
	Resolver   *service.IdentityResolver
	Aggregator *service.Aggregator
	Dispatcher *service.Dispatcher

	interval time.Duration
	timeout  time.Duration
	mode     Mode
	now      func() time.Time

	// running makes ticks and manual flushes mutually exclusive.
	running sync.Mutex
}

func NewHeartbeatPoller(
	feed gather.Feed,
	resolver *service.IdentityResolver,
	aggregator *service.Aggregator,
	dispatcher *service.Dispatcher,
	cfg PollerConfig,
) *HeartbeatPoller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = interval
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeBatched
	}

	return &HeartbeatPoller{
		Feed:       feed,
		Resolver:   resolver,
		Aggregator: aggregator,
		Dispatcher: dispatcher,
		interval:   interval,
		timeout:    timeout,
		mode:       mode,
		now:        time.Now,
	}
}

func (p *HeartbeatPoller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Infof("Heartbeat poller started (%s mode, every %s)", p.mode, p.interval)

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping heartbeat poller...")
			return
		case <-ticker.C:
			p.run(ctx)
		}
	}
}

func (p *HeartbeatPoller) run(ctx context.Context) {
	report, err := p.Tick(ctx)
	if errors.Is(err, ErrTickInProgress) {
		log.Warn("Poller: previous tick still running, skipping this one")
		return
	}

	if err != nil {
		log.Errorf("Poller: tick failed: %v", err)
		return
	}

	log.Debugf("Poller: tick %d saw %d participants, %d eligible, %d resolved, %d dispatches (%d failed)",
		report.ID, report.Seen, report.Eligible, report.Resolved, len(report.Dispatches), report.Failures())
}

// Tick runs one poll pass. It returns ErrTickInProgress without doing anything
// if another tick or flush holds the poller.
func (p *HeartbeatPoller) Tick(ctx context.Context) (*TickReport, error) {
	if !p.running.TryLock() {
		return nil, ErrTickInProgress
	}
	defer p.running.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	report := &TickReport{ID: uid.Generate()}
	now := p.now()

	snapshot, err := p.Feed.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read presence snapshot: %w", err)
	}
	report.Seen = len(snapshot)

	minute := entity.MinuteOf(now)
	for _, participant := range orderedParticipants(snapshot) {
		if !p.Resolver.Eligible(participant) {
			continue
		}
		report.Eligible++

		account, err := p.Resolver.Resolve(ctx, participant)
		if err != nil {
			log.Errorf("Poller: tick %d: %v", report.ID, err)
			continue
		}

		if account == nil {
			continue
		}
		report.Resolved++

		switch p.mode {
		case ModeImmediate:
			report.Dispatches = append(report.Dispatches, p.Dispatcher.DispatchNow(ctx, account, now))
		default:
			p.Aggregator.Record(account.ID, minute)
		}
	}

	if p.mode == ModeBatched {
		report.Dispatches = p.Aggregator.Flush(ctx, p.Resolver, p.Dispatcher)
	}

	for _, d := range report.Dispatches {
		if !d.OK() {
			log.Errorf("Poller: tick %d: dispatch for %s failed: %v", report.ID, d.AccountID, d.Err)
		}
	}
	return report, nil
}

// Flush pushes everything the aggregator holds right now, outside the ticker.
func (p *HeartbeatPoller) Flush(ctx context.Context) ([]service.DispatchResult, error) {
	if !p.running.TryLock() {
		return nil, ErrTickInProgress
	}
	defer p.running.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.Aggregator.Flush(ctx, p.Resolver, p.Dispatcher), nil
}

// Pending exposes the aggregator's buckets.
func (p *HeartbeatPoller) Pending() map[string][]int64 {
	return p.Aggregator.Pending()
}

func (p *HeartbeatPoller) Mode() Mode {
	return p.mode
}

// orderedParticipants iterates the snapshot in a stable order so ticks are reproducible.
func orderedParticipants(snapshot entity.PresenceSnapshot) []*entity.Participant {
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	participants := make([]*entity.Participant, 0, len(keys))
	for _, k := range keys {
		participants = append(participants, snapshot[k])
	}
	return participants
}
