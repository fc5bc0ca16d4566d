package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/metrics"
	"github.com/rl1809/storefront/internal/port"
)

const defaultSyncTimeout = 10 * time.Second

type syncJob struct {
	token string
	cart  domain.Cart
}

// Syncer pushes cart snapshots to the backend on a single background worker.
// A push is attempted at most once per trigger; failures are logged and
// forgotten.
type Syncer struct {
	api     port.SyncAPI
	tokens  port.TokenSource
	log     *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	queue  chan syncJob
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewSyncer(api port.SyncAPI, tokens port.TokenSource, queueSize int, log *slog.Logger, m *metrics.Metrics) *Syncer {
	if queueSize <= 0 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Syncer{
		api:     api,
		tokens:  tokens,
		log:     log,
		metrics: m,
		timeout: defaultSyncTimeout,
		queue:   make(chan syncJob, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// Trigger queues cart for a push and returns immediately. Empty carts and
// logged-out users are skipped; a full queue drops the snapshot.
func (s *Syncer) Trigger(cart domain.Cart) {
	if len(cart) == 0 {
		s.metrics.Sync(metrics.SyncSkipped)
		return
	}
	token, ok := s.tokens.Token(s.ctx)
	if !ok {
		s.metrics.Sync(metrics.SyncSkipped)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	select {
	case s.queue <- syncJob{token: token, cart: cart.Clone()}:
	default:
		s.metrics.Sync(metrics.SyncDropped)
		s.log.Warn("cart sync queue full, snapshot dropped", "lines", len(cart))
	}
}

func (s *Syncer) worker() {
	defer s.wg.Done()

	for job := range s.queue {
		if s.ctx.Err() != nil {
			continue
		}

		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		err := s.api.SyncCart(ctx, job.token, job.cart)
		cancel()

		if err != nil {
			s.metrics.Sync(metrics.SyncFailed)
			s.log.Warn("cart sync failed", "error", err, "lines", len(job.cart))
			continue
		}
		s.metrics.Sync(metrics.SyncSent)
		s.log.Debug("cart synced", "lines", len(job.cart))
	}
}

// Close cancels the in-flight push, drops queued snapshots and waits for the
// worker to exit. Triggers after Close are ignored.
func (s *Syncer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
}

// Shutdown stops accepting triggers and lets the worker drain what is
// already queued. If ctx ends first the remaining pushes are cancelled.
func (s *Syncer) Shutdown(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.cancel()
		<-done
	}
	s.cancel()
}
