package usecase

import "sync"

// Signals carries restart and shutdown requests from the UI side to the
// session loop. Both requests are fire-and-forget and safe to repeat.
type Signals struct {
	restart chan struct{}

	done     chan struct{}
	doneOnce sync.Once
}

func NewSignals() *Signals {
	return &Signals{
		restart: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// RequestRestart never blocks; repeated requests collapse into one.
func (that *Signals) RequestRestart() {
	select {
	case that.restart <- struct{}{}:
	default:
	}
}

func (that *Signals) RequestShutdown() {
	that.doneOnce.Do(func() {
		close(that.done)
	})
}

func (that *Signals) Restart() <-chan struct{} {
	return that.restart
}

func (that *Signals) Done() <-chan struct{} {
	return that.done
}

func (that *Signals) IsShutdown() bool {
	select {
	case <-that.done:
		return true
	default:
		return false
	}
}

// drainRestart drops a restart request left over from a previous session.
func (that *Signals) drainRestart() {
	select {
	case <-that.restart:
	default:
	}
}
