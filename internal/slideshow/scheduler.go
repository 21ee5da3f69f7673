package slideshow

import (
	"sync"
	"time"
)

// Task is a scheduled repeating callback.
type Task interface {
	Stop()
}

// Scheduler starts repeating tasks.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
}

// TickerScheduler runs each task on its own goroutine driven by a time.Ticker.
type TickerScheduler struct{}

var _ Scheduler = TickerScheduler{}

func (TickerScheduler) Every(interval time.Duration, fn func()) Task {
	t := &tickerTask{stopC: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stopC:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return t
}

type tickerTask struct {
	once  sync.Once
	stopC chan struct{}
}

func (t *tickerTask) Stop() {
	t.once.Do(func() { close(t.stopC) })
}
