package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/adapter"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/store"
)

// Reaper hard-deletes identities whose deletion grace period has elapsed,
// together with the files they stored.
type Reaper struct {
	identities store.IdentityRepository
	objects    adapter.ObjectStorage
	interval   time.Duration

	// running guards against overlapping sweeps; a tick that finds it set
	// is skipped.
	running atomic.Bool

	now    func() time.Time
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

func NewReaper(identities store.IdentityRepository, objects adapter.ObjectStorage, interval time.Duration, logger *logger.Logger) *Reaper {
	return &Reaper{
		identities: identities,
		objects:    objects,
		interval:   interval,
		now:        time.Now,
		logger:     logger,
	}
}

func (r *Reaper) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.loop(ctx)
	}()

	r.logger.Info().Dur("interval", r.interval).Msg("reaper started")
}

func (r *Reaper) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.logger.Info().Msg("reaper stopped")
}

func (r *Reaper) loop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick runs a sweep unless the previous one is still in progress.
func (r *Reaper) tick(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Debug().Msg("previous sweep still running, skipping tick")
		return
	}
	defer r.running.Store(false)

	if _, err := r.Run(ctx); err != nil {
		r.logger.Error().Err(err).Msg("reaper sweep failed")
	}
}

// Run performs one sweep and returns the number of deleted identities.
// Object storage failures are logged and do not stop the deletion.
func (r *Reaper) Run(ctx context.Context) (int64, error) {
	expired, err := r.identities.FindExpiredDeletions(ctx, r.now())
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(expired))
	var files []string
	for i := range expired {
		ids = append(ids, expired[i].ID)
		files = append(files, expired[i].StoredFiles()...)
	}

	if len(files) > 0 {
		if err = r.objects.DeleteObjects(ctx, files); err != nil {
			r.logger.Warn().Err(err).Int("files", len(files)).Msg("error deleting stored files of expired accounts")
		}
	}

	deleted, err := r.identities.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}

	r.logger.Info().Int64("deleted", deleted).Msg("expired accounts deleted")
	return deleted, nil
}
