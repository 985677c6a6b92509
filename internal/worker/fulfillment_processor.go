package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bitloot/bitloot/internal/adapter/supplier"
	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/usecase"
)

// StoreFacade exposes the subset of application functionality required by the worker.
type StoreFacade interface {
	OrdersForFulfillment(ctx context.Context, limit int) ([]model.Order, error)
	FulfillOrder(ctx context.Context, orderID string) (*usecase.FulfillmentStatus, error)
}

// FulfillmentProcessor claims paid orders and drives their fulfillment
// concurrently.
type FulfillmentProcessor struct {
	facade       StoreFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewFulfillmentProcessor constructs fulfillment worker pool.
func NewFulfillmentProcessor(facade StoreFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *FulfillmentProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &FulfillmentProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (p *FulfillmentProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *FulfillmentProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *FulfillmentProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *FulfillmentProcessor) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.OrdersForFulfillment(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch orders for fulfillment failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *FulfillmentProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleOrder(ctx, order)
		}
	}
}

func (p *FulfillmentProcessor) handleOrder(ctx context.Context, order model.Order) {
	status, err := p.facade.FulfillOrder(ctx, order.ID)
	if err != nil {
		var tm supplier.TooManyRequestsError
		switch {
		case errors.As(err, &tm):
			p.logger.Warn("supplier rate limited", slog.Duration("retry_after", tm.RetryAfter))
			time.Sleep(tm.RetryAfter)
		case errors.Is(err, domainErrors.ErrOutOfStock):
			// Order keeps its payment status and is retried next poll.
			p.logger.Warn("supplier out of stock", slog.String("order_id", order.ID))
		default:
			p.logger.Error("order fulfillment failed", slog.String("order_id", order.ID), slog.String("error", err.Error()))
		}
		return
	}

	p.logger.Info("order processed",
		slog.String("order_id", order.ID),
		slog.String("status", string(status.Status)),
		slog.Int("items_fulfilled", status.ItemsFulfilled),
		slog.Int("items_total", status.ItemsTotal),
	)
}
