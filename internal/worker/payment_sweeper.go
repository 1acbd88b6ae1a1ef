package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/storefront/internal/adapter/mercadopago"
)

// ReconcileFacade exposes the subset of application functionality required by the sweeper.
type ReconcileFacade interface {
	PendingOrders(ctx context.Context, minAge time.Duration, afterID int64, limit int) ([]int64, error)
	ReconcileOrder(ctx context.Context, orderID int64) error
}

// PaymentSweeper periodically asks the gateway about orders that stayed
// pending, recovering lost payment notifications.
type PaymentSweeper struct {
	facade    ReconcileFacade
	interval  time.Duration
	minAge    time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	// cursor is the last order id listed; owned by the dispatch goroutine.
	cursor int64

	jobs     chan int64
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.Mutex
	inflight map[int64]struct{}
}

// NewPaymentSweeper constructs the sweeper worker pool. A non-positive
// interval disables it.
func NewPaymentSweeper(facade ReconcileFacade, interval, minAge time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentSweeper{
		facade:    facade,
		interval:  interval,
		minAge:    minAge,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan int64, batchSize),
		inflight:  make(map[int64]struct{}),
	}
}

// Enabled reports whether the sweeper runs at all.
func (s *PaymentSweeper) Enabled() bool {
	return s.interval > 0
}

// Start launches background processing.
func (s *PaymentSweeper) Start(ctx context.Context) {
	if !s.Enabled() {
		s.logger.Info("payment sweeper disabled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *PaymentSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *PaymentSweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *PaymentSweeper) sweep(ctx context.Context) {
	ids, err := s.facade.PendingOrders(ctx, s.minAge, s.cursor, s.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("list pending orders failed", slog.String("error", err.Error()))
		}
		return
	}
	// Resume after the last listed id; a short page wraps back to the start.
	if len(ids) < s.batchSize {
		s.cursor = 0
	} else {
		s.cursor = ids[len(ids)-1]
	}
	for _, id := range ids {
		if !s.claim(id) {
			continue
		}
		select {
		case <-ctx.Done():
			s.release(id)
			return
		case s.jobs <- id:
		}
	}
}

func (s *PaymentSweeper) claim(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return false
	}
	s.inflight[id] = struct{}{}
	return true
}

func (s *PaymentSweeper) release(id int64) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

func (s *PaymentSweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-s.jobs:
			s.handleOrder(ctx, id)
			s.release(id)
		}
	}
}

func (s *PaymentSweeper) handleOrder(ctx context.Context, orderID int64) {
	err := s.facade.ReconcileOrder(ctx, orderID)
	if err == nil || ctx.Err() != nil {
		return
	}

	var tooMany mercadopago.TooManyRequestsError
	if errors.As(err, &tooMany) {
		s.logger.Warn("gateway rate limited", slog.Duration("retry_after", tooMany.RetryAfter))
		select {
		case <-ctx.Done():
		case <-time.After(tooMany.RetryAfter):
		}
		return
	}
	s.logger.Error("sweep order failed", slog.Int64("order_id", orderID), slog.String("error", err.Error()))
}
