package lifecycle

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/menupilot/menupilot/internal/pkg/env"
	"github.com/menupilot/menupilot/internal/pkg/subscription"
)

const sweepBatchSize = 500

// Scheduler periodically drives overdue subscriptions through the expiry
// transition. The transition itself is idempotent, so overlapping sweeps on
// multiple service instances are harmless.
type Scheduler struct {
	subs     *subscription.Service
	interval time.Duration
	ticker   *time.Ticker
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// NewScheduler creates a lifecycle scheduler sweeping at the given interval.
func NewScheduler(subs *subscription.Service, interval time.Duration) *Scheduler {
	return &Scheduler{
		subs:     subs,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// NewSchedulerFromEnv reads LIFECYCLE_SWEEP_MINUTES (default 5).
func NewSchedulerFromEnv(subs *subscription.Service) *Scheduler {
	minutes := 5
	if v, err := strconv.Atoi(env.GetEnv("LIFECYCLE_SWEEP_MINUTES", "5")); err == nil && v > 0 {
		minutes = v
	}
	return NewScheduler(subs, time.Duration(minutes)*time.Minute)
}

// Start begins the background sweep. Restart after Stop is safe.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.stopCh = make(chan struct{})
	s.running = true
	s.ticker = time.NewTicker(s.interval)

	log.Info("[Lifecycle] Starting subscription expiry sweep")

	s.wg.Add(1)
	go s.sweepWorker()
}

// Stop halts the sweep and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.ticker.Stop()
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	log.Info("[Lifecycle] Stopped subscription expiry sweep")
}

func (s *Scheduler) sweepWorker() {
	defer s.wg.Done()

	// Run once at startup so a restarted instance catches up immediately.
	s.SweepOnce()

	for {
		select {
		case <-s.ticker.C:
			s.SweepOnce()
		case <-s.stopCh:
			return
		}
	}
}

// SweepOnce expires all currently overdue subscriptions.
func (s *Scheduler) SweepOnce() {
	total := 0
	for {
		expired, err := s.subs.ExpireOverdue(sweepBatchSize)
		if err != nil {
			log.Errorf("[Lifecycle] Expiry sweep failed: %v", err)
			return
		}
		total += expired
		if expired < sweepBatchSize {
			break
		}
	}
	if total > 0 {
		log.Infof("[Lifecycle] Expired %d overdue subscriptions", total)
	}
}
