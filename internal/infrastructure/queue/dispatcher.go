// Package queue deletes orphaned profile images in the background, after
// the write that replaced or removed them has committed.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/salmannsharif/User-Profile-Manager/internal/api/metrics"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher shards cleanup jobs over a fixed set of workers by object key.
type Dispatcher struct {
	workers []chan domain.ProfileImage
	store   ports.ImageStore
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers workers. If
// numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store ports.ImageStore, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ProfileImage, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ProfileImage, channelBuffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue schedules img for deletion. It never blocks: when the worker's
// buffer is full the job is dropped and logged.
func (d *Dispatcher) Enqueue(img *domain.ProfileImage) {
	if img == nil || img.ObjectKey == "" {
		return
	}
	idx := d.shardIndex(img.ObjectKey)
	select {
	case d.workers[idx] <- *img:
		metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.CleanupFailuresTotal.Inc()
		d.log.Warn().Str("object_key", img.ObjectKey).Int("worker_id", idx).
			Msg("image cleanup queue full, dropping job")
	}
}

func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ProfileImage) {
	depth := metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case img, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := d.store.Delete(ctx, &img); err != nil {
				metrics.CleanupFailuresTotal.Inc()
				d.log.Error().Err(err).
					Str("object_key", img.ObjectKey).
					Int("worker_id", id).
					Msg("image cleanup failed")
			}
		}
	}
}
