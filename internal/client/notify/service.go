package notify

import (
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Service routes notifications to a Sink, dropping repeats of an identical
// (severity, summary, detail) triple inside the dedup window. Entries evict
// themselves via a timer at their deadline, so the key map never grows
// across a long idle session.
//
// Independent Service instances keep independent windows: the generic UI
// instance uses a short window, while the fault handler owns a wider one to
// survive bursts of simultaneous request failures.
type Service struct {
	sink   Sink
	window time.Duration

	mu     sync.Mutex
	live   map[[32]byte]*time.Timer
	closed bool
}

// NewService creates a deduplicating notification service.
func NewService(sink Sink, window time.Duration) *Service {
	return &Service{
		sink:   sink,
		window: window,
		live:   map[[32]byte]*time.Timer{},
	}
}

// Emit forwards the notification to the sink unless an identical one was
// emitted inside the dedup window.
func (s *Service) Emit(n Notification) {
	if n.Sticky {
		n.Life = 0
	} else if n.Life == 0 {
		n.Life = DefaultLife
	}

	key := dedupKey(n)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if _, ok := s.live[key]; ok {
		s.mu.Unlock()
		return
	}
	s.live[key] = time.AfterFunc(s.window, func() {
		s.mu.Lock()
		delete(s.live, key)
		s.mu.Unlock()
	})
	s.mu.Unlock()

	s.sink.Present(n)
}

// Close stops outstanding eviction timers. Further Emit calls are no-ops.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for key, timer := range s.live {
		timer.Stop()
		delete(s.live, key)
	}
}

func (s *Service) Success(summary, detail string, opts ...Option) {
	s.emitWith(SeveritySuccess, summary, detail, opts)
}

func (s *Service) Info(summary, detail string, opts ...Option) {
	s.emitWith(SeverityInfo, summary, detail, opts)
}

func (s *Service) Warning(summary, detail string, opts ...Option) {
	s.emitWith(SeverityWarn, summary, detail, opts)
}

func (s *Service) Error(summary, detail string, opts ...Option) {
	s.emitWith(SeverityError, summary, detail, opts)
}

func (s *Service) emitWith(sev Severity, summary, detail string, opts []Option) {
	n := Notification{Severity: sev, Summary: summary, Detail: detail}
	for _, opt := range opts {
		opt(&n)
	}
	s.Emit(n)
}

// SessionExpired is the canned forced-logout notification.
func (s *Service) SessionExpired() {
	s.Warning("Session expired", "Your session has expired, please sign in again", Sticky())
}

// NetworkError is the canned no-response notification.
func (s *Service) NetworkError() {
	s.Error("Network error", "Unable to contact the server, check your connection", Sticky())
}

// PermissionError is the canned forbidden notification.
func (s *Service) PermissionError() {
	s.Error("Permission denied", "You do not have permission to perform this action")
}

// dedupKey derives a fixed-size membership key from the identity triple.
// Fields are NUL-separated to keep ("a","bc") and ("ab","c") distinct.
func dedupKey(n Notification) [32]byte {
	data := make([]byte, 0, len(n.Severity)+len(n.Summary)+len(n.Detail)+2)
	data = append(data, n.Severity...)
	data = append(data, 0)
	data = append(data, n.Summary...)
	data = append(data, 0)
	data = append(data, n.Detail...)
	return blake2b.Sum256(data)
}
