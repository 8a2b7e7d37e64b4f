package persist

import (
	"context"
	"log"
	"sync"
	"time"

	"driftboard/internal/board"
)

// SessionSweeper is the slice of *session.Store the loop needs: a
// dirty-consuming snapshot walk. Kept local to avoid persist importing
// session (session, in turn, declares its own Loader interface instead
// of importing persist).
type SessionSweeper interface {
	ID() string
	ConsumeDirty() bool
	MarkDirty()
	Snapshot() []board.Stroke
}

// Loop is the background task from spec.md §4.5: ticks at a configured
// interval, walks the store, flushes every dirty session, and retries
// on the next tick if a save fails.
type Loop struct {
	backend  Backend
	interval time.Duration
	list     func() []SessionSweeper
	log      *log.Logger
}

func NewLoop(backend Backend, interval time.Duration, list func() []SessionSweeper, logger *log.Logger) *Loop {
	return &Loop{backend: backend, interval: interval, list: list, log: logger}
}

// Run ticks until ctx is cancelled, flushing dirty sessions on each
// tick, then performs one final flush before returning (mirroring the
// corpus's ticker-plus-graceful-drain shutdown shape).
func (l *Loop) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}
	t := time.NewTicker(l.interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.sweep()
		case <-ctx.Done():
			l.sweep()
			return
		}
	}
}

func (l *Loop) sweep() {
	for _, s := range l.list() {
		if !s.ConsumeDirty() {
			continue
		}
		if err := l.backend.Save(s.ID(), s.Snapshot()); err != nil {
			l.log.Printf("session %s: save failed, will retry: %v", s.ID(), err)
			s.MarkDirty()
		}
	}
}

// FlushOne performs a single synchronous save, used on last-peer-detach
// (spec.md §4.4: "invoke persistence for dirty sessions, then evict").
func (l *Loop) FlushOne(id string, strokes []board.Stroke) {
	if err := l.backend.Save(id, strokes); err != nil {
		l.log.Printf("session %s: flush-on-detach failed: %v", id, err)
	}
}
