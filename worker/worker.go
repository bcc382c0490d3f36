package worker

import (
	"runtime"

	"github.com/getsentry/sentry-go"
)

var workQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go work()
	}
}

func work() {
	defer sentry.Recover()

	for {
		f, ok := <-workQueue
		if !ok {
			return
		}

		f()
	}
}

// Submit queues work that must stay off the simulation tick, such as
// encoding snapshots for spectators.
func Submit(f func()) {
	workQueue <- f
}
