package process

import (
	"time"
)

// Stoppable is a process that can be stopped and have its resources closed.
type Stoppable interface {
	Stop(timeout time.Duration) error
	Close()
}

// StopCloseAndNil stops and closes *p, then sets it to nil, in one step.
// Close and the nil-out run even when Stop fails; the Stop error is
// returned. A nil p or *p is a no-op.
//
// The P constraint admits only pointer types implementing Stoppable, so the
// nil check needs no reflection. E is inferred.
//
//	var srv *core.Server
//	// ... start srv ...
//	err := process.StopCloseAndNil(&srv, 10*time.Second)
func StopCloseAndNil[P interface {
	*E
	Stoppable
}, E any](p *P, timeout time.Duration) error {
	if p == nil || *p == nil {
		return nil
	}
	defer func() {
		(*p).Close()
		*p = nil
	}()
	return (*p).Stop(timeout)
}
