package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/api/metrics"
	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher routes swap lifecycle events to a fixed set of workers
// using consistent hashing on the swap id, so the audit trail preserves
// per-swap event ordering. Writes happen off the request path; the lifecycle
// operation itself never waits on the audit store.
type AuditDispatcher struct {
	workers []chan domain.SwapEvent
	events  ports.SwapEventRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates an AuditDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, events ports.SwapEventRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.SwapEvent, numWorkers),
		events:  events,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SwapEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event for the worker responsible for its swap id.
// Non-blocking up to channelBuffer capacity.
func (d *AuditDispatcher) Record(event domain.SwapEvent) {
	idx := d.shardIndex(event.SwapID)
	d.workers[idx] <- event
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a swap id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(swapID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(swapID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SwapEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.events.InsertEvent(ctx, &event); err != nil {
				d.log.Error().Err(err).
					Str("swap_id", event.SwapID).
					Int("worker_id", id).
					Msg("audit event write failed")
			}
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
