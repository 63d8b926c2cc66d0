package utils

import (
	"sync"
	"time"
)

// IdleWatchdog fires onExpire when Touch has not been called for the
// configured timeout. A zero or negative timeout disables it; every method is
// then a no-op. onExpire may run more than once if Touch races with expiry, so
// it must be idempotent (a context.CancelCauseFunc is).
type IdleWatchdog struct {
	mu      sync.Mutex
	timer   *time.Timer
	timeout time.Duration
	stopped bool
}

// NewIdleWatchdog starts the watchdog immediately.
func NewIdleWatchdog(timeout time.Duration, onExpire func()) *IdleWatchdog {
	watchdog := &IdleWatchdog{timeout: timeout}
	if timeout > 0 {
		watchdog.timer = time.AfterFunc(timeout, onExpire)
	}
	return watchdog
}

// Touch restarts the idle countdown.
func (w *IdleWatchdog) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer == nil || w.stopped {
		return
	}
	w.timer.Reset(w.timeout)
}

// Stop disarms the watchdog. It is safe to call more than once.
func (w *IdleWatchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer == nil || w.stopped {
		return
	}
	w.stopped = true
	w.timer.Stop()
}
