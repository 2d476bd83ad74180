package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gaadidekho/car-marketplace/internal/api/metrics"
	"github.com/gaadidekho/car-marketplace/internal/core/domain"
	"github.com/gaadidekho/car-marketplace/internal/core/ports"
)

const (
	defaultWorkers      = 4
	channelBuffer       = 256
	defaultDrainTimeout = 5 * time.Second
	recordTimeout       = 5 * time.Second
)

// Dispatcher routes listing activities to a fixed set of workers using
// consistent hashing on the listing id, keeping per-listing ordering.
type Dispatcher struct {
	workers []chan domain.ListingActivity
	service ports.ActivityService
	log     zerolog.Logger
	wg      sync.WaitGroup

	drainTimeout time.Duration
}

var _ ports.ActivityPublisher = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ListingActivity, numWorkers),
		service: service,
		log:     log,

		drainTimeout: defaultDrainTimeout,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ListingActivity, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// records what is still queued, within drainTimeout, and then returns.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go func(id int, ch <-chan domain.ListingActivity) {
			defer d.wg.Done()
			d.runWorker(ctx, id, ch)
		}(i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands an activity to the worker responsible for its listing.
// It never blocks: when that worker's queue is full the activity is dropped.
func (d *Dispatcher) Publish(activity domain.ListingActivity) {
	idx := d.shardIndex(activity.ListingID)
	select {
	case d.workers[idx] <- activity:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("listing_id", activity.ListingID).
			Str("action", string(activity.Action)).
			Int("worker_id", idx).
			Msg("activity queue full, dropping activity")
	}
}

// shardIndex maps a listing id deterministically to a worker index.
func (d *Dispatcher) shardIndex(listingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(listingID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ListingActivity) {
	depth := metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		if ctx.Err() != nil {
			d.drain(ctx, id, ch)
			return
		}
		select {
		case <-ctx.Done():
		case activity := <-ch:
			depth.Set(float64(len(ch)))
			d.record(ctx, id, activity)
		}
	}
}

// drain records the activities left in ch after shutdown began. Whatever is
// still queued once drainTimeout expires is counted as dropped.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.ListingActivity) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.drainTimeout)
	defer cancel()

	dropped := 0
	for {
		select {
		case activity := <-ch:
			if drainCtx.Err() != nil {
				dropped++
				metrics.ActivityDroppedTotal.Inc()
				continue
			}
			d.record(drainCtx, id, activity)
		default:
			metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			if dropped > 0 {
				d.log.Warn().Int("worker_id", id).Int("dropped", dropped).
					Msg("shutdown deadline passed, dropped queued activities")
			}
			return
		}
	}
}

// record runs one activity through the service on a context that outlives
// worker cancellation.
func (d *Dispatcher) record(ctx context.Context, id int, activity domain.ListingActivity) {
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	start := time.Now()
	err := d.service.Record(recordCtx, activity)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("listing_id", activity.ListingID).
			Str("action", string(activity.Action)).
			Int("worker_id", id).
			Msg("activity recording failed")
	}
	metrics.ActivityProcessingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
