package warmup

import (
	"sync/atomic"
	"time"
)

// ReadinessState tracks whether the initial warmup has completed. The
// service also reports ready once the timeout elapses, so a slow or failing
// upstream cannot keep it out of rotation forever.
type ReadinessState struct {
	ready     atomic.Bool
	startTime time.Time
	timeout   time.Duration
}

// ReadinessStatus is the wire form of the readiness state.
type ReadinessStatus struct {
	Ready          bool   `json:"ready"`
	Reason         string `json:"reason,omitempty"`
	ElapsedSeconds int    `json:"elapsed_seconds,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// NewReadinessState creates a state that becomes ready when MarkReady is
// called or the timeout elapses, whichever comes first.
func NewReadinessState(timeout time.Duration) *ReadinessState {
	return &ReadinessState{
		startTime: time.Now(),
		timeout:   timeout,
	}
}

// IsReady reports whether the service should accept traffic.
func (s *ReadinessState) IsReady() bool {
	return s.ready.Load() || time.Since(s.startTime) >= s.timeout
}

// MarkReady marks warmup as complete.
func (s *ReadinessState) MarkReady() {
	s.ready.Store(true)
}

// WarmupCompleted reports whether MarkReady was called, as opposed to
// readiness by timeout.
func (s *ReadinessState) WarmupCompleted() bool {
	return s.ready.Load()
}

// Status returns the current state for the readiness endpoint.
func (s *ReadinessState) Status() ReadinessStatus {
	isReady := s.IsReady()

	status := ReadinessStatus{
		Ready:          isReady,
		ElapsedSeconds: int(time.Since(s.startTime).Seconds()),
		TimeoutSeconds: int(s.timeout.Seconds()),
	}

	switch {
	case !isReady:
		status.Reason = "warmup in progress"
	case !s.ready.Load():
		status.Reason = "timeout reached (warmup may still be running)"
	}
	return status
}
