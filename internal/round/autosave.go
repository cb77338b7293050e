package round

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultAutosaveInterval is how often a dirty draft is written.
const DefaultAutosaveInterval = 10 * time.Second

// SaveFunc persists a draft.
type SaveFunc func(value string) error

// Autosaver periodically writes the latest draft when it changed and is not blank.
type Autosaver struct {
	mu     sync.Mutex
	latest string
	dirty  bool
	saves  int

	save     SaveFunc
	interval time.Duration
	log      *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	started  bool
}

// NewAutosaver creates an Autosaver. A non-positive interval uses
// DefaultAutosaveInterval and a nil logger is replaced by a no-op logger.
func NewAutosaver(save SaveFunc, interval time.Duration, log *zap.Logger) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Autosaver{
		save:     save,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Update records a new draft value.
func (a *Autosaver) Update(value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if value == a.latest {
		return
	}
	a.latest = value
	a.dirty = true
}

// Latest returns the most recent draft value.
func (a *Autosaver) Latest() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}

// Dirty reports whether the latest value has not been written yet.
func (a *Autosaver) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

// Saves returns how many writes succeeded.
func (a *Autosaver) Saves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}

// SaveIfDirty writes the latest value if it changed since the last write and
// is not blank. It reports whether a write happened.
func (a *Autosaver) SaveIfDirty() (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.dirty {
		return false, nil
	}
	return a.writeLocked()
}

// Flush writes the latest non-blank value regardless of the dirty flag.
func (a *Autosaver) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.writeLocked()
	return err
}

func (a *Autosaver) writeLocked() (bool, error) {
	if strings.TrimSpace(a.latest) == "" {
		return false, nil
	}
	if err := a.save(a.latest); err != nil {
		return false, err
	}
	a.dirty = false
	a.saves++
	return true, nil
}

// Start runs the autosave loop until Stop is called or ctx ends.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	a.started = true
	a.mu.Unlock()
	go func() {
		defer close(a.done)
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-a.stop:
				return
			case <-ticker.C:
				if _, err := a.SaveIfDirty(); err != nil {
					a.log.Warn("autosave failed", zap.Error(err))
				}
			}
		}
	}()
}

// Stop ends the autosave loop and waits for a write in progress to finish.
// It is safe to call more than once. The save func must not call Stop.
func (a *Autosaver) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if started {
		<-a.done
	}
}

// Done is closed when a started loop exits.
func (a *Autosaver) Done() <-chan struct{} {
	return a.done
}
