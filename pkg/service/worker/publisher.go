package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/utils/errutil"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
)

// Publisher builds and uploads one report bundle, returning its locations
type Publisher interface {
	PublishBundle(ctx context.Context) ([]string, error)
}

// BundlePublisher uploads a report bundle at a fixed interval while the
// server runs. Failures are logged and retried on the next tick.
//
// Only one server instance is expected to publish; there is no locking.
type BundlePublisher struct {
	publisher Publisher
	interval  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
}

func NewBundlePublisher(publisher Publisher, interval time.Duration) *BundlePublisher {
	return &BundlePublisher{
		publisher: publisher,
		interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start launches the publish loop. It does not block.
func (w *BundlePublisher) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("publish interval must be positive", goerr.V("interval", w.interval.String()))
	}

	logging.From(ctx).Info("Bundle publisher starting", "interval", w.interval.String())
	go w.run(ctx)
	return nil
}

// Stop signals the loop to end and waits for it
func (w *BundlePublisher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Bundle publisher stopped")
}

func (w *BundlePublisher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.publish(ctx); err != nil {
				_ = errutil.Handle(ctx, err, "Bundle publication failed (will retry next interval)")
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.From(ctx).Info("Bundle publisher context cancelled")
			return
		}
	}
}

func (w *BundlePublisher) publish(ctx context.Context) error {
	startTime := time.Now()

	locations, err := w.publisher.PublishBundle(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to publish bundle")
	}

	logging.From(ctx).Info("Bundle published",
		"files", len(locations),
		"duration", time.Since(startTime).String())
	return nil
}
